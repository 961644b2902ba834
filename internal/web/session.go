package web

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/usecase"
)

const sessionName = "blogportal_session"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash is a one-shot notification rendered on the next page.
type flash struct {
	Kind    string
	Message string
}

// sessionStore wraps the cookie session carrying per-visitor transient state:
// flash notifications, pending gate challenges, and blogs handed from the
// detail view to the edit form.
type sessionStore struct {
	store *sessions.CookieStore
}

// newSessionStore derives signing and encryption keys from the configured
// secret, so a single string configures the whole cookie.
func newSessionStore(secret string) *sessionStore {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	store := sessions.NewCookieStore(h[:], e[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionStore{store: store}
}

func (s *sessionStore) session(r *http.Request) *sessions.Session {
	// Get only errors on an undecodable cookie; a fresh session is the right
	// recovery either way.
	session, _ := s.store.Get(r, sessionName)
	return session
}

// clientID returns a stable random identifier for this visitor, minting one
// on first use. It keys server-side form instances.
func (s *sessionStore) clientID(w http.ResponseWriter, r *http.Request) string {
	session := s.session(r)
	if id, ok := session.Values["sid"].(string); ok && id != "" {
		return id
	}

	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	id := hex.EncodeToString(buf)
	session.Values["sid"] = id
	_ = session.Save(r, w)
	return id
}

func (s *sessionStore) addFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session := s.session(r)
	session.AddFlash(message, "flash_"+kind)
	_ = session.Save(r, w)
}

func (s *sessionStore) popFlashes(w http.ResponseWriter, r *http.Request) []flash {
	session := s.session(r)

	var flashes []flash
	for _, kind := range []string{flashSuccess, flashError} {
		for _, value := range session.Flashes("flash_" + kind) {
			if msg, ok := value.(string); ok {
				flashes = append(flashes, flash{Kind: kind, Message: msg})
			}
		}
	}
	_ = session.Save(r, w)
	return flashes
}

// gateState returns the pending challenge for a blog, if any.
func (s *sessionStore) gateState(r *http.Request, id string) (usecase.Action, string) {
	session := s.session(r)

	action, _ := session.Values["gate_action:"+id].(string)
	errMsg, _ := session.Values["gate_error:"+id].(string)
	return usecase.Action(action), errMsg
}

func (s *sessionStore) setGateState(w http.ResponseWriter, r *http.Request, id string, action usecase.Action, errMsg string) {
	session := s.session(r)
	session.Values["gate_action:"+id] = string(action)
	session.Values["gate_error:"+id] = errMsg
	_ = session.Save(r, w)
}

func (s *sessionStore) clearGateState(w http.ResponseWriter, r *http.Request, id string) {
	session := s.session(r)
	delete(session.Values, "gate_action:"+id)
	delete(session.Values, "gate_error:"+id)
	_ = session.Save(r, w)
}

// carrySeed hands an already-fetched blog (password included) to the edit
// form so it can prefill without a second store call.
func (s *sessionStore) carrySeed(w http.ResponseWriter, r *http.Request, blog domain.Blog) {
	raw, err := json.Marshal(blog)
	if err != nil {
		return
	}

	session := s.session(r)
	session.Values["seed:"+blog.ID] = string(raw)
	_ = session.Save(r, w)
}

// popSeed retrieves and clears a carried blog. The second return is false
// when nothing was carried and the caller must fetch instead.
func (s *sessionStore) popSeed(w http.ResponseWriter, r *http.Request, id string) (domain.Blog, bool) {
	session := s.session(r)

	raw, ok := session.Values["seed:"+id].(string)
	if !ok || raw == "" {
		return domain.Blog{}, false
	}

	delete(session.Values, "seed:"+id)
	_ = session.Save(r, w)

	var blog domain.Blog
	if err := json.Unmarshal([]byte(raw), &blog); err != nil {
		return domain.Blog{}, false
	}
	return blog, true
}

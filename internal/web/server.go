package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"BlogPortal/internal/ports"
	"BlogPortal/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{"list.html", "detail.html", "form.html", "notfound.html"}

// Deps wires the web surface to its collaborators.
type Deps struct {
	Store            ports.BlogStore
	OverridePassword string
	SessionSecret    string
	Logger           *slog.Logger
}

// Server renders the portal pages and drives the form controller and the
// mutation gate from HTTP requests.
type Server struct {
	store    ports.BlogStore
	sessions *sessionStore
	override string
	pages    map[string]*template.Template
	logger   *slog.Logger
	forms    *formRegistry
}

// NewServer parses the embedded templates and builds the handler state.
func NewServer(deps Deps) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		store:    deps.Store,
		sessions: newSessionStore(deps.SessionSecret),
		override: deps.OverridePassword,
		pages:    pages,
		logger:   deps.Logger,
		forms:    newFormRegistry(deps.Store),
	}, nil
}

// Handler returns the portal's HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RedirectSlashes)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/blogs", http.StatusFound)
	})

	r.Get("/blogs", s.handleListBlogs)
	r.Get("/blogs/new", s.handleNewBlogForm)
	r.Post("/blogs", s.handleCreateBlog)

	r.Get("/blogs/{id}", s.handleShowBlog)
	r.Post("/blogs/{id}/request", s.handleRequestAction)
	r.Post("/blogs/{id}/confirm", s.handleConfirmAction)
	r.Post("/blogs/{id}/cancel", s.handleCancelAction)

	r.Get("/blogs/{id}/edit", s.handleEditBlogForm)
	r.Post("/blogs/{id}/edit", s.handleUpdateBlog)

	return r
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).
			ParseFS(templatesFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// render executes a page inside the base layout, injecting pending flashes.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = s.sessions.popFlashes(w, r)

	tmpl, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown template", "page", page)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error("render page", "page", page, "error", err)
	}
}

// formRegistry tracks one form controller per visitor and form, so the busy
// flag survives across requests for the same form instance. Entries are
// dropped when the form completes.
type formRegistry struct {
	store ports.BlogStore
	mu    sync.Mutex
	forms map[string]*usecase.Form
}

func newFormRegistry(store ports.BlogStore) *formRegistry {
	return &formRegistry{
		store: store,
		forms: make(map[string]*usecase.Form),
	}
}

func (r *formRegistry) get(key string) *usecase.Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	if form, ok := r.forms[key]; ok {
		return form
	}

	form := usecase.NewForm(r.store)
	r.forms[key] = form
	return form
}

func (r *formRegistry) drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, key)
}

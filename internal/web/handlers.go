package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
	"BlogPortal/internal/usecase"
)

func (s *Server) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list blogs", "error", err)
		s.sessions.addFlash(w, r, flashError, "Error loading blogs. Please try again.")
	}

	s.render(w, r, "list.html", map[string]any{
		"Title": "All Blogs",
		"Blogs": blogs,
	})
}

func (s *Server) handleShowBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := s.store.Get(r.Context(), id, true)
	if errors.Is(err, ports.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		s.render(w, r, "notfound.html", map[string]any{"Title": "Blog Not Found"})
		return
	}
	if err != nil {
		s.logger.Error("fetch blog", "id", id, "error", err)
		s.sessions.addFlash(w, r, flashError, "Error loading blog data")
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}

	gate := s.gateFor(r, blog)

	s.render(w, r, "detail.html", map[string]any{
		"Title":      blog.Title,
		"Blog":       blog,
		"GateAction": gate.Pending(),
		"GateError":  gate.ChallengeError(),
	})
}

// handleRequestAction receives an edit/delete intent from the detail view.
// Unprotected blogs release immediately; protected ones get the challenge
// modal on the next detail render.
func (s *Server) handleRequestAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := usecase.Action(r.PostFormValue("action"))

	blog, err := s.store.Get(r.Context(), id, true)
	if err != nil {
		s.logger.Error("fetch blog", "id", id, "error", err)
		s.sessions.addFlash(w, r, flashError, "Error loading blog data")
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}

	gate := usecase.NewGate(blog, s.override)
	release, released := gate.RequestAction(action)
	if released {
		s.performRelease(w, r, blog, release)
		return
	}

	if gate.Pending() != usecase.ActionNone {
		s.sessions.setGateState(w, r, id, gate.Pending(), "")
	}
	http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
}

// handleConfirmAction validates the challenge response for the pending
// action. Mismatches keep the challenge up with an error; retries are
// unlimited and never reach the store.
func (s *Server) handleConfirmAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := s.store.Get(r.Context(), id, true)
	if err != nil {
		s.logger.Error("fetch blog", "id", id, "error", err)
		s.sessions.addFlash(w, r, flashError, "Error loading blog data")
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}

	gate := s.gateFor(r, blog)
	if gate.Pending() == usecase.ActionNone {
		http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
		return
	}

	release, released := gate.SubmitPassword(r.PostFormValue("password"))
	if !released {
		s.sessions.setGateState(w, r, id, gate.Pending(), gate.ChallengeError())
		http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
		return
	}

	s.sessions.clearGateState(w, r, id)
	s.performRelease(w, r, blog, release)
}

func (s *Server) handleCancelAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.sessions.clearGateState(w, r, id)
	http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
}

// performRelease carries out an unlocked action: edit navigates to the edit
// form with the fetched blog carried along, delete calls the store with the
// blog's own stored password.
func (s *Server) performRelease(w http.ResponseWriter, r *http.Request, blog domain.Blog, release usecase.Release) {
	switch release.Action {
	case usecase.ActionEdit:
		s.sessions.carrySeed(w, r, blog)
		http.Redirect(w, r, "/blogs/"+blog.ID+"/edit", http.StatusSeeOther)

	case usecase.ActionDelete:
		if err := s.store.Delete(r.Context(), blog.ID, release.Password); err != nil {
			s.logger.Error("delete blog", "id", blog.ID, "error", err)
			s.sessions.addFlash(w, r, flashError, "Error deleting blog")
			http.Redirect(w, r, "/blogs/"+blog.ID, http.StatusSeeOther)
			return
		}
		s.sessions.addFlash(w, r, flashSuccess, "Blog Deleted!!!")
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)

	default:
		http.Redirect(w, r, "/blogs/"+blog.ID, http.StatusSeeOther)
	}
}

func (s *Server) handleNewBlogForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "form.html", map[string]any{
		"Title":      "Write a New Blog",
		"Mode":       "create",
		"FormAction": "/blogs",
		"Draft":      domain.Draft{},
	})
}

func (s *Server) handleCreateBlog(w http.ResponseWriter, r *http.Request) {
	draft := draftFromRequest(r)
	form := s.forms.get(s.sessions.clientID(w, r) + "|create")

	created, err := form.SubmitCreate(r.Context(), draft)
	if err != nil {
		s.renderFormError(w, r, err, map[string]any{
			"Title":      "Write a New Blog",
			"Mode":       "create",
			"FormAction": "/blogs",
			"Draft":      draft,
		}, "Error creating blog. Please try again!!!")
		return
	}

	s.forms.drop(s.sessions.clientID(w, r) + "|create")
	s.logger.Info("blog created", "id", created.ID)
	s.sessions.addFlash(w, r, flashSuccess, "New Blog Added!!!!!!!")
	http.Redirect(w, r, "/blogs", http.StatusSeeOther)
}

func (s *Server) handleEditBlogForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	src := usecase.NeedsFetch(id)
	if seed, ok := s.sessions.popSeed(w, r, id); ok {
		src = usecase.Seeded(seed)
	}

	form := s.forms.get(s.sessions.clientID(w, r) + "|edit:" + id)
	draft, err := form.PrefillDraft(r.Context(), src)
	if err != nil {
		s.logger.Error("prefill edit form", "id", id, "error", err)
		s.sessions.addFlash(w, r, flashError, "Error loading blog data")
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}

	s.render(w, r, "form.html", map[string]any{
		"Title":      "Edit Blog",
		"Mode":       "edit",
		"FormAction": "/blogs/" + id + "/edit",
		"Draft":      draft,
	})
}

func (s *Server) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	draft := draftFromRequest(r)
	form := s.forms.get(s.sessions.clientID(w, r) + "|edit:" + id)

	updated, err := form.SubmitUpdate(r.Context(), id, draft)
	if err != nil {
		s.renderFormError(w, r, err, map[string]any{
			"Title":      "Edit Blog",
			"Mode":       "edit",
			"FormAction": "/blogs/" + id + "/edit",
			"Draft":      draft,
		}, "Error updating blog. Please try again.")
		return
	}

	s.forms.drop(s.sessions.clientID(w, r) + "|edit:" + id)
	s.logger.Info("blog updated", "id", updated.ID)
	s.sessions.addFlash(w, r, flashSuccess, "Blog updated successfully!")
	http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
}

// renderFormError re-renders the form with the draft intact so the user can
// retry. Validation failures list the missing fields; everything else
// becomes a flash notification.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, err error, data map[string]any, storeMessage string) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		data["Errors"] = verr.Fields
	case errors.Is(err, usecase.ErrBusy):
		s.sessions.addFlash(w, r, flashError, "Still publishing, hold on...")
	default:
		s.logger.Error("submit form", "error", err)
		s.sessions.addFlash(w, r, flashError, storeMessage)
	}
	s.render(w, r, "form.html", data)
}

func draftFromRequest(r *http.Request) domain.Draft {
	_ = r.ParseForm()

	draft := domain.Draft{
		Title:         r.PostFormValue("title"),
		Author:        r.PostFormValue("author"),
		Content:       r.PostFormValue("content"),
		TagsInput:     r.PostFormValue("tags"),
		PasswordInput: r.PostFormValue("password"),
	}
	if existing := r.PostFormValue("existing"); existing != "" {
		draft.Existing = &existing
	}
	return draft
}

func (s *Server) gateFor(r *http.Request, blog domain.Blog) *usecase.Gate {
	gate := usecase.NewGate(blog, s.override)
	action, errMsg := s.sessions.gateState(r, blog.ID)
	gate.Restore(action, errMsg)
	return gate
}

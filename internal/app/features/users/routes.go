package users

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the caller's own account, mounted under
// /users/me.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Me)
	r.Get("/status", h.Status)
	r.Post("/documents", h.SubmitDocuments)
	r.Post("/onboarding", h.FinishOnboarding)
	return r
}

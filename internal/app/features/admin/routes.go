package admin

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /admin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Post("/users/{userID}/approve", h.ApproveUser)
	r.Post("/users/{userID}/deny", h.DenyUser)
	r.Get("/posts", h.ListPosts)
	r.Delete("/posts/{postID}", h.DeletePost)
	r.Get("/actions", h.ListActions)
	return r
}

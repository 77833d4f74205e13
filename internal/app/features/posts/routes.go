package posts

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /posts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Post("/{postID}/vote", h.Vote)
	r.Post("/{postID}/comments", h.CreateComment)
	r.Get("/{postID}/comments", h.ListComments)
	return r
}

package uploads

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /uploads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Presign)
	return r
}

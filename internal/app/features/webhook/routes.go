package webhook

import "github.com/go-chi/chi/v5"

// Register adds the identity-provider webhook routes to r, which the
// caller mounts under /webhooks.
func Register(r chi.Router, h *Handler) {
	r.Post("/clerk", h.Clerk)
}

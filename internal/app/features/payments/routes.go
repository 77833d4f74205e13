package payments

import "github.com/go-chi/chi/v5"

// Register adds the billing webhook routes to r, which the caller mounts
// under /webhooks alongside the identity-provider routes.
func Register(r chi.Router, h *Handler) {
	r.Post("/polar", h.Polar)
}

// Package webhook ingests identity-provider events. Clerk signs each
// delivery with svix headers; deliveries that fail verification are
// rejected before any state changes.
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
)

const maxBodyBytes = 1 << 20

// Verifier checks a webhook delivery's signature. *svix.Webhook satisfies
// this.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

type Handler struct {
	Users    *userstore.Store
	Verifier Verifier
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, verifier Verifier, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Verifier: verifier, Log: logger}
}

// clerkEvent is the envelope Clerk posts for every event type.
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (e *clerkEvent) email() string {
	if len(e.Data.EmailAddresses) == 0 {
		return ""
	}
	return e.Data.EmailAddresses[0].EmailAddress
}

func (e *clerkEvent) name() string {
	switch {
	case e.Data.FirstName != "" && e.Data.LastName != "":
		return e.Data.FirstName + " " + e.Data.LastName
	case e.Data.FirstName != "":
		return e.Data.FirstName
	default:
		return e.Data.LastName
	}
}

// Clerk handles POST /webhooks/clerk.
func (h *Handler) Clerk(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "could not read body")
		return
	}

	if err := h.Verifier.Verify(payload, r.Header); err != nil {
		h.Log.Warn("webhook signature rejected", zap.Error(err))
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid signature")
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON payload")
		return
	}
	if event.Data.ID == "" {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "event has no user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "clerk webhook")
	defer cancel()

	switch event.Type {
	case "user.created", "user.updated":
		if _, err := h.Users.UpsertOnLogin(ctx, event.Data.ID, event.email(), event.name()); err != nil {
			// Retried by Clerk on 5xx.
			if !errors.Is(err, userstore.ErrDuplicateClerkID) {
				httpjson.Internal(w, h.Log, "clerk webhook upsert", err)
				return
			}
		}
		h.Log.Info("user synced from webhook",
			zap.String("event", event.Type),
			zap.String("clerk_id", event.Data.ID),
		)

	case "user.deleted":
		if err := h.Users.DeleteByClerkID(ctx, event.Data.ID); err != nil {
			httpjson.Internal(w, h.Log, "clerk webhook delete", err)
			return
		}
		h.Log.Info("user deleted from webhook", zap.String("clerk_id", event.Data.ID))

	default:
		// Unknown event types are acknowledged so Clerk stops retrying.
		h.Log.Debug("ignoring webhook event", zap.String("event", event.Type))
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"received": true})
}

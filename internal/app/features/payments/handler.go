// Package payments ingests billing events from Polar and keeps the user's
// subscription flags in sync. Deliveries are signed the same way Clerk's
// are (standard webhooks), so the same verifier type applies.
package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/webhook"
	paymentstore "github.com/redteahq/redtea/internal/app/store/payments"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
	"github.com/redteahq/redtea/internal/domain/models"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Payments *paymentstore.Store
	Users    *userstore.Store
	Verifier webhook.Verifier
	Log      *zap.Logger
}

func NewHandler(payments *paymentstore.Store, users *userstore.Store, verifier webhook.Verifier, logger *zap.Logger) *Handler {
	return &Handler{Payments: payments, Users: users, Verifier: verifier, Log: logger}
}

// polarEvent is the envelope Polar posts. The customer's clerk_id rides in
// the checkout metadata the client sets when opening the purchase flow.
type polarEvent struct {
	Type string `json:"type"`
	Data struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Metadata struct {
			ClerkID string `json:"clerk_id"`
			Plan    string `json:"plan"`
		} `json:"metadata"`
	} `json:"data"`
}

// Polar handles POST /webhooks/polar.
func (h *Handler) Polar(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "could not read body")
		return
	}

	if err := h.Verifier.Verify(payload, r.Header); err != nil {
		h.Log.Warn("polar signature rejected", zap.Error(err))
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid signature")
		return
	}

	var event polarEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON payload")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "polar webhook")
	defer cancel()

	switch event.Type {
	case "order.created":
		if event.Data.Metadata.ClerkID == "" {
			httpjson.Fail(w, httpjson.KindInvalidRequest, "order has no clerk_id metadata")
			return
		}
		u, err := h.Users.GetByClerkID(ctx, event.Data.Metadata.ClerkID)
		if err != nil {
			if errors.Is(err, userstore.ErrNotFound) {
				// Ack so Polar stops retrying; the order is logged for
				// manual reconciliation.
				h.Log.Warn("order for unknown user",
					zap.String("clerk_id", event.Data.Metadata.ClerkID),
					zap.String("payment_id", event.Data.ID),
				)
				httpjson.Respond(w, http.StatusOK, map[string]bool{"received": true})
				return
			}
			httpjson.Internal(w, h.Log, "polar webhook", err)
			return
		}

		if _, err := h.Payments.Create(ctx, models.Payment{
			UserID:          u.ID,
			PaymentProvider: "polar",
			PaymentID:       event.Data.ID,
			Status:          models.PaymentCompleted,
			Amount:          event.Data.Amount,
		}); err != nil {
			httpjson.Internal(w, h.Log, "polar webhook", err)
			return
		}
		if err := h.Users.MarkSubscribed(ctx, u.ClerkID, true, event.Data.Metadata.Plan); err != nil {
			httpjson.Internal(w, h.Log, "polar webhook", err)
			return
		}
		h.Log.Info("subscription recorded",
			zap.String("clerk_id", u.ClerkID),
			zap.String("plan", event.Data.Metadata.Plan),
		)

	case "subscription.canceled", "subscription.revoked":
		if event.Data.Metadata.ClerkID == "" {
			httpjson.Fail(w, httpjson.KindInvalidRequest, "subscription has no clerk_id metadata")
			return
		}
		err := h.Users.MarkSubscribed(ctx, event.Data.Metadata.ClerkID, false, "")
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			h.Log.Warn("cancellation for unknown user",
				zap.String("clerk_id", event.Data.Metadata.ClerkID))
		case err != nil:
			httpjson.Internal(w, h.Log, "polar webhook", err)
			return
		default:
			h.Log.Info("subscription canceled",
				zap.String("clerk_id", event.Data.Metadata.ClerkID))
		}

	default:
		h.Log.Debug("ignoring polar event", zap.String("event", event.Type))
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"received": true})
}

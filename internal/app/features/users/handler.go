// Package users serves the caller-facing account endpoints: profile lookup,
// verification document submission, and onboarding completion.
package users

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/shared"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// Me handles GET /users/me. It returns the caller's own record, so the
// document keys are visible to their owner.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByClerkID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Fail(w, httpjson.KindNotFound, "user not found")
			return
		}
		httpjson.Internal(w, h.Log, "get user", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

type submitDocumentsRequest struct {
	SelfieKey     *string `json:"selfie_key,omitempty"`
	IDDocumentKey *string `json:"id_document_key,omitempty"`
}

// SubmitDocuments handles POST /users/me/documents. The keys come from the
// upload flow; submitting either one moves an unverified or rejected user
// to the pending stage.
func (h *Handler) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	var req submitDocumentsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON body")
		return
	}
	if req.SelfieKey == nil && req.IDDocumentKey == nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "at least one document key is required")
		return
	}
	if (req.SelfieKey != nil && *req.SelfieKey == "") || (req.IDDocumentKey != nil && *req.IDDocumentKey == "") {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "document keys must be non-empty")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "submit documents")
	defer cancel()

	u, err := h.Users.SubmitDocuments(ctx, callerID, req.SelfieKey, req.IDDocumentKey)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// The record is seeded by the identity-provider webhook. A
			// missing record here means that webhook has not landed yet,
			// so the client should retry, not treat the account as gone.
			httpjson.Fail(w, httpjson.KindPreconditionFailed, "account record not created yet")
			return
		}
		httpjson.Internal(w, h.Log, "submit documents", err)
		return
	}

	h.Log.Info("verification documents submitted",
		zap.String("clerk_id", callerID),
		zap.String("verification_status", u.VerificationStatus),
	)
	httpjson.Respond(w, http.StatusOK, u)
}

// FinishOnboarding handles POST /users/me/onboarding.
func (h *Handler) FinishOnboarding(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "finish onboarding")
	defer cancel()

	if err := h.Users.FinishOnboarding(ctx, callerID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// Same precondition as SubmitDocuments: the webhook-seeded
			// record must exist first.
			httpjson.Fail(w, httpjson.KindPreconditionFailed, "account record not created yet")
			return
		}
		httpjson.Internal(w, h.Log, "finish onboarding", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"has_completed_onboarding": true})
}

// statusForViewer is the subset of User safe to show to other users.
type statusForViewer struct {
	Pseudonym          string `json:"pseudonym"`
	IsApproved         bool   `json:"is_approved"`
	VerificationStatus string `json:"verification_status"`
}

// Status handles GET /users/me/status: a lightweight poll for the client's
// verification banner.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user status")
	defer cancel()

	u, err := h.Users.GetByClerkID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Fail(w, httpjson.KindNotFound, "user not found")
			return
		}
		httpjson.Internal(w, h.Log, "user status", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, statusForViewer{
		Pseudonym:          u.Pseudonym,
		IsApproved:         u.IsApproved,
		VerificationStatus: u.VerificationStatus,
	})
}

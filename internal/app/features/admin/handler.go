// Package admin serves the moderation endpoints: reviewing verification
// submissions, approving or denying users, and removing posts.
//
// Authorization lives in the stores, which check the allow-list and write
// audit records. These handlers only translate errors to HTTP statuses.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/shared"
	"github.com/redteahq/redtea/internal/app/store/adminactions"
	poststore "github.com/redteahq/redtea/internal/app/store/posts"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/filestore"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
	"github.com/redteahq/redtea/internal/domain/models"
)

type Handler struct {
	Users   *userstore.Store
	Posts   *poststore.Store
	Actions *adminactions.Store
	Files   filestore.Store
	Admins  *adminlist.List
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, posts *poststore.Store, actions *adminactions.Store, files filestore.Store, admins *adminlist.List, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Posts: posts, Actions: actions, Files: files, Admins: admins, Log: logger}
}

// reviewUser is a user row in the admin listing, with the stored document
// keys resolved to time-limited download URLs.
type reviewUser struct {
	models.User
	SelfieURL     string `json:"selfie_url,omitempty"`
	IDDocumentURL string `json:"id_document_url,omitempty"`
}

// ListUsers handles GET /admin/users?status=pending&limit=&offset=.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	adminID := shared.CallerID(r)
	q := r.URL.Query()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list users")
	defer cancel()

	users, err := h.Users.ListWithVerificationStatus(ctx, adminID, q.Get("status"),
		queryInt64(q.Get("limit"), 100), queryInt64(q.Get("offset"), 0))
	if err != nil {
		if errors.Is(err, adminlist.ErrUnauthorized) {
			httpjson.Fail(w, httpjson.KindUnauthorized, "admin access required")
			return
		}
		httpjson.Internal(w, h.Log, "admin list users", err)
		return
	}

	rows := make([]reviewUser, 0, len(users))
	for _, u := range users {
		row := reviewUser{User: u}
		if u.SelfieID != nil {
			if url, err := h.Files.URL(ctx, *u.SelfieID); err == nil {
				row.SelfieURL = url
			} else {
				h.Log.Warn("could not resolve selfie url",
					zap.String("clerk_id", u.ClerkID), zap.Error(err))
			}
		}
		if u.IDDocumentID != nil {
			if url, err := h.Files.URL(ctx, *u.IDDocumentID); err == nil {
				row.IDDocumentURL = url
			} else {
				h.Log.Warn("could not resolve id document url",
					zap.String("clerk_id", u.ClerkID), zap.Error(err))
			}
		}
		rows = append(rows, row)
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"users": rows})
}

// ApproveUser handles POST /admin/users/{userID}/approve.
func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.reviewDecision(w, r, models.ActionApproveUser)
}

// DenyUser handles POST /admin/users/{userID}/deny.
func (h *Handler) DenyUser(w http.ResponseWriter, r *http.Request) {
	h.reviewDecision(w, r, models.ActionDenyUser)
}

func (h *Handler) reviewDecision(w http.ResponseWriter, r *http.Request, action string) {
	adminID := shared.CallerID(r)
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, action)
	defer cancel()

	if action == models.ActionApproveUser {
		err = h.Users.Approve(ctx, adminID, userID)
	} else {
		err = h.Users.Deny(ctx, adminID, userID)
	}
	switch {
	case errors.Is(err, adminlist.ErrUnauthorized):
		httpjson.Fail(w, httpjson.KindUnauthorized, "admin access required")
		return
	case errors.Is(err, userstore.ErrNotFound):
		httpjson.Fail(w, httpjson.KindNotFound, "user not found")
		return
	case err != nil:
		httpjson.Internal(w, h.Log, action, err)
		return
	}

	h.Log.Info("verification decision",
		zap.String("action", action),
		zap.String("admin_id", adminID),
		zap.String("user_id", userID.Hex()),
	)
	httpjson.Respond(w, http.StatusOK, map[string]string{"result": action})
}

// ListPosts handles GET /admin/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	adminID := shared.CallerID(r)

	// Listing is read-only but still admin-only: it exposes author IDs.
	if err := h.Admins.Require(adminID); err != nil {
		httpjson.Fail(w, httpjson.KindUnauthorized, "admin access required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list posts")
	defer cancel()

	posts, err := h.Posts.ListNewestFirst(ctx, 200)
	if err != nil {
		httpjson.Internal(w, h.Log, "admin list posts", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"posts": posts})
}

// DeletePost handles DELETE /admin/posts/{postID}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	adminID := shared.CallerID(r)
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid post id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin delete post")
	defer cancel()

	err = h.Posts.Delete(ctx, adminID, postID)
	switch {
	case errors.Is(err, adminlist.ErrUnauthorized):
		httpjson.Fail(w, httpjson.KindUnauthorized, "admin access required")
		return
	case errors.Is(err, poststore.ErrNotFound):
		httpjson.Fail(w, httpjson.KindNotFound, "post not found")
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "admin delete post", err)
		return
	}

	h.Log.Info("post removed",
		zap.String("admin_id", adminID),
		zap.String("post_id", postID.Hex()),
	)
	w.WriteHeader(http.StatusNoContent)
}

// queryInt64 parses a positive integer query value, falling back to def
// when the value is absent or unusable.
func queryInt64(raw string, def int64) int64 {
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ListActions handles GET /admin/actions.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	adminID := shared.CallerID(r)

	// The audit trail is admin-only.
	if err := h.Admins.Require(adminID); err != nil {
		httpjson.Fail(w, httpjson.KindUnauthorized, "admin access required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin list actions")
	defer cancel()

	actions, err := h.Actions.Recent(ctx, queryInt64(r.URL.Query().Get("limit"), 100))
	if err != nil {
		httpjson.Internal(w, h.Log, "admin list actions", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"actions": actions})
}

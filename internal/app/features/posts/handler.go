// Package posts serves post creation, the anonymized feed, voting, and
// comments.
package posts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/shared"
	commentstore "github.com/redteahq/redtea/internal/app/store/comments"
	poststore "github.com/redteahq/redtea/internal/app/store/posts"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/htmlsanitize"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
	"github.com/redteahq/redtea/internal/domain/models"
)

const (
	maxTextLen   = 5000
	maxFeedLimit = 100
	defaultLimit = 50
)

type Handler struct {
	Posts    *poststore.Store
	Users    *userstore.Store
	Comments *commentstore.Store
	Log      *zap.Logger
}

func NewHandler(posts *poststore.Store, users *userstore.Store, comments *commentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Users: users, Comments: comments, Log: logger}
}

type createPostRequest struct {
	Text   string  `json:"text"`
	Age    int     `json:"age"`
	City   string  `json:"city"`
	FileID *string `json:"file_id,omitempty"`
}

// Create handles POST /posts. Only approved users may post; unverified
// callers get 412 so the client can route them to verification.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	var req createPostRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON body")
		return
	}
	text := strings.TrimSpace(htmlsanitize.Sanitize(req.Text))
	if req.FileID != nil && *req.FileID == "" {
		req.FileID = nil
	}
	if text == "" && req.FileID == nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "text or a file attachment is required")
		return
	}
	if len(text) > maxTextLen {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "text is too long")
		return
	}
	if req.Age < 0 || req.Age > 120 {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "age is out of range")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create post")
	defer cancel()

	author, err := h.Users.GetByClerkID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Fail(w, httpjson.KindNotFound, "user not found")
			return
		}
		httpjson.Internal(w, h.Log, "create post", err)
		return
	}
	if !author.IsApproved {
		httpjson.Fail(w, httpjson.KindPreconditionFailed, "account is not verified")
		return
	}

	p, err := h.Posts.Create(ctx, models.Post{
		UserID: author.ID,
		Text:   text,
		Age:    req.Age,
		City:   htmlsanitize.Sanitize(strings.TrimSpace(req.City)),
		FileID: req.FileID,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "create post", err)
		return
	}

	h.Log.Info("post created",
		zap.String("post_id", p.ID.Hex()),
		zap.String("clerk_id", callerID),
	)
	httpjson.Respond(w, http.StatusCreated, p)
}

// Feed handles GET /feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httpjson.Fail(w, httpjson.KindInvalidRequest, "limit must be a positive integer")
			return
		}
		if n > maxFeedLimit {
			n = maxFeedLimit
		}
		limit = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "feed assembly")
	defer cancel()

	items, err := h.Posts.Feed(ctx, shared.CallerID(r), limit)
	if err != nil {
		httpjson.Internal(w, h.Log, "feed assembly", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"posts": items})
}

type voteRequest struct {
	Vote string `json:"vote"` // green | red | none
}

// Vote handles POST /posts/{postID}/vote.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid post id")
		return
	}

	var req voteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "vote")
	defer cancel()

	p, err := h.Posts.Vote(ctx, postID, callerID, req.Vote)
	switch {
	case errors.Is(err, poststore.ErrInvalidVoteType):
		httpjson.Fail(w, httpjson.KindInvalidRequest, err.Error())
		return
	case errors.Is(err, poststore.ErrNotFound):
		httpjson.Fail(w, httpjson.KindNotFound, "post not found")
		return
	case errors.Is(err, poststore.ErrVoteConflict):
		httpjson.Fail(w, httpjson.KindConflict, "vote conflicted, retry")
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "vote", err)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]int{
		"green_flags": p.GreenFlags,
		"red_flags":   p.RedFlags,
	})
}

type createCommentRequest struct {
	Text string `json:"text"`
}

// CreateComment handles POST /posts/{postID}/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid post id")
		return
	}

	var req createCommentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON body")
		return
	}
	text := strings.TrimSpace(htmlsanitize.Sanitize(req.Text))
	if text == "" {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "text is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create comment")
	defer cancel()

	commenter, err := h.Users.GetByClerkID(ctx, callerID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Fail(w, httpjson.KindNotFound, "user not found")
			return
		}
		httpjson.Internal(w, h.Log, "create comment", err)
		return
	}
	if !commenter.IsApproved {
		httpjson.Fail(w, httpjson.KindPreconditionFailed, "account is not verified")
		return
	}

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			httpjson.Fail(w, httpjson.KindNotFound, "post not found")
			return
		}
		httpjson.Internal(w, h.Log, "create comment", err)
		return
	}

	c, err := h.Comments.Create(ctx, models.Comment{
		PostID: postID,
		UserID: commenter.ID,
		Text:   text,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "create comment", err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, c)
}

// ListComments handles GET /posts/{postID}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid post id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list comments")
	defer cancel()

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		httpjson.Internal(w, h.Log, "list comments", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"comments": comments})
}

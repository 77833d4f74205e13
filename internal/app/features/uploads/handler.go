// Package uploads issues presigned upload grants. Clients request a grant,
// PUT the file bytes directly to object storage, then reference the
// returned key when submitting documents or creating posts.
package uploads

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/shared"
	"github.com/redteahq/redtea/internal/app/system/filestore"
	"github.com/redteahq/redtea/internal/app/system/httpjson"
	"github.com/redteahq/redtea/internal/app/system/timeouts"
)

type Handler struct {
	Files filestore.Store
	Log   *zap.Logger
}

func NewHandler(files filestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Files: files, Log: logger}
}

type presignRequest struct {
	ContentType string `json:"content_type"`
}

// allowedContentType limits uploads to images. Verification documents and
// post media are both photos.
func allowedContentType(ct string) bool {
	return strings.HasPrefix(ct, "image/")
}

// Presign handles POST /uploads.
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	callerID := shared.CallerID(r)
	if callerID == "" {
		httpjson.Fail(w, httpjson.KindUnauthorized, "missing caller identity")
		return
	}

	var req presignRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "invalid JSON body")
		return
	}
	if !allowedContentType(req.ContentType) {
		httpjson.Fail(w, httpjson.KindInvalidRequest, "content_type must be an image type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "presign upload")
	defer cancel()

	up, err := h.Files.PresignUpload(ctx, req.ContentType)
	if err != nil {
		h.Log.Error("presign upload failed", zap.Error(err))
		httpjson.Fail(w, httpjson.KindUpstreamFailure, "storage unavailable")
		return
	}

	h.Log.Info("upload presigned",
		zap.String("clerk_id", callerID),
		zap.String("key", up.Key),
	)
	httpjson.Respond(w, http.StatusCreated, up)
}

package uploads_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/shared"
	"github.com/redteahq/redtea/internal/app/features/uploads"
	"github.com/redteahq/redtea/internal/app/system/filestore"
)

func TestPresign(t *testing.T) {
	handler := uploads.NewHandler(filestore.NewNoop(), zap.NewNop())

	req := httptest.NewRequest("POST", "/uploads", strings.NewReader(`{"content_type":"image/jpeg"}`))
	req.Header.Set(shared.CallerIDHeader, "user_abc")
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var up filestore.PresignedUpload
	if err := json.Unmarshal(rec.Body.Bytes(), &up); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if up.Key == "" || up.URL == "" {
		t.Errorf("expected key and url, got %+v", up)
	}
}

func TestPresign_RejectsNonImage(t *testing.T) {
	handler := uploads.NewHandler(filestore.NewNoop(), zap.NewNop())

	req := httptest.NewRequest("POST", "/uploads", strings.NewReader(`{"content_type":"application/pdf"}`))
	req.Header.Set(shared.CallerIDHeader, "user_abc")
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestPresign_MissingIdentity(t *testing.T) {
	handler := uploads.NewHandler(filestore.NewNoop(), zap.NewNop())

	req := httptest.NewRequest("POST", "/uploads", strings.NewReader(`{"content_type":"image/png"}`))
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

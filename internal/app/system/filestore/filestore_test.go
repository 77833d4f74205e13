package filestore_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redteahq/redtea/internal/app/system/filestore"
)

func TestNoop_PresignUpload(t *testing.T) {
	store := filestore.NewNoop()
	up, err := store.PresignUpload(context.Background(), "image/jpeg")
	if err != nil {
		t.Fatalf("PresignUpload failed: %v", err)
	}
	if !strings.HasPrefix(up.Key, "uploads/") {
		t.Errorf("key %q missing uploads/ prefix", up.Key)
	}
	if up.URL == "" {
		t.Error("expected non-empty URL")
	}
	if !up.ExpiresAt.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", up.ExpiresAt)
	}
}

func TestNoop_KeysAreUnique(t *testing.T) {
	store := filestore.NewNoop()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		up, err := store.PresignUpload(context.Background(), "image/png")
		if err != nil {
			t.Fatalf("PresignUpload failed: %v", err)
		}
		if seen[up.Key] {
			t.Fatalf("duplicate key %q", up.Key)
		}
		seen[up.Key] = true
	}
}

func TestNoop_URL(t *testing.T) {
	store := filestore.NewNoop()
	url, err := store.URL(context.Background(), "uploads/2026/08/abc")
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if !strings.Contains(url, "uploads/2026/08/abc") {
		t.Errorf("url %q does not reference key", url)
	}

	if _, err := store.URL(context.Background(), ""); err == nil {
		t.Error("expected error for empty key")
	}
}

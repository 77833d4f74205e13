package filestore

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// NoopStore is an in-memory Store for tests and local development without
// object storage. Presigned URLs point nowhere; keys behave like the real
// thing.
type NoopStore struct {
	Prefix string
	Expiry time.Duration
}

// NewNoop returns a NoopStore with the default layout.
func NewNoop() *NoopStore {
	return &NoopStore{Prefix: "uploads", Expiry: 15 * time.Minute}
}

func (n *NoopStore) PresignUpload(_ context.Context, _ string) (PresignedUpload, error) {
	now := time.Now().UTC()
	key := path.Join(n.Prefix, now.Format("2006"), now.Format("01"), uuid.New().String())
	return PresignedUpload{
		Key:       key,
		URL:       "https://storage.invalid/" + key,
		ExpiresAt: now.Add(n.Expiry),
	}, nil
}

func (n *NoopStore) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	return "https://storage.invalid/" + key, nil
}

func (n *NoopStore) Delete(_ context.Context, _ string) error {
	return nil
}

// Package filestore abstracts the object storage used for verification
// documents and post media. Clients never stream file bytes through the
// application: they receive a presigned upload URL, PUT the bytes directly
// to storage, and hand the resulting key back to the API.
package filestore

import (
	"context"
	"time"
)

// PresignedUpload is a one-shot upload grant for a single object.
type PresignedUpload struct {
	// Key identifies the object once uploaded. Callers store this key,
	// never the URL.
	Key string `json:"key"`
	// URL accepts a single HTTP PUT of the object bytes until ExpiresAt.
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the object storage contract.
type Store interface {
	// PresignUpload issues an upload grant for a new object of the given
	// content type.
	PresignUpload(ctx context.Context, contentType string) (PresignedUpload, error)

	// URL returns a time-limited download URL for the object at key.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the object at key. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, key string) error
}

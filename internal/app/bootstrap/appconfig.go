// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS). AppConfig is everything specific to this application:
// database connection, the admin allow-list, webhook secrets, and object
// storage.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// AdminIDs is the comma-separated allow-list of Clerk user IDs with
	// moderation privileges.
	AdminIDs string

	// Webhook signing secrets
	ClerkWebhookSecret string // Clerk (svix) endpoint secret, "whsec_…"
	PolarWebhookSecret string // Polar endpoint secret

	// Object storage configuration
	StorageType     string // "s3" or "noop" (local dev, no real storage)
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string        // key prefix, e.g. "uploads"
	PresignExpiry   time.Duration // presigned URL validity window
}

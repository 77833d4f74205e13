// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for RedTea.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_ids, etc.
//   - Environment variables: REDTEA_MONGO_URI, REDTEA_ADMIN_IDS, etc.
//   - Command-line flags: --mongo_uri, --admin_ids, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "redtea", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "admin_ids", Default: "", Desc: "Comma-separated Clerk user IDs with admin privileges"},

	{Name: "clerk_webhook_secret", Default: "", Desc: "Clerk webhook signing secret (whsec_…)"},
	{Name: "polar_webhook_secret", Default: "", Desc: "Polar webhook signing secret"},

	// Object storage
	{Name: "storage_type", Default: "noop", Desc: "Storage backend: 's3' or 'noop' (dev only)"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads", Desc: "S3 key prefix"},
	{Name: "presign_expiry", Default: "15m", Desc: "Presigned URL validity (e.g., 15m, 1h)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, REDTEA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "REDTEA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AdminIDs: appValues.String("admin_ids"),

		ClerkWebhookSecret: appValues.String("clerk_webhook_secret"),
		PolarWebhookSecret: appValues.String("polar_webhook_secret"),

		StorageType:     appValues.String("storage_type"),
		StorageS3Region: appValues.String("storage_s3_region"),
		StorageS3Bucket: appValues.String("storage_s3_bucket"),
		StorageS3Prefix: appValues.String("storage_s3_prefix"),
		PresignExpiry:   appValues.Duration("presign_expiry", 15*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// RedTea validates the MongoDB URI format to catch configuration errors
// early, and refuses to start in production without webhook secrets or a
// real storage backend.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.StorageType {
	case "s3":
		if appCfg.StorageS3Region == "" || appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_region and storage_s3_bucket")
		}
	case "noop":
		if coreCfg.Env == "prod" {
			return fmt.Errorf("storage_type 'noop' is not allowed in production")
		}
	default:
		return fmt.Errorf("storage_type must be 's3' or 'noop', got %q", appCfg.StorageType)
	}

	if coreCfg.Env == "prod" {
		if appCfg.ClerkWebhookSecret == "" {
			return fmt.Errorf("clerk_webhook_secret is required in production")
		}
		if appCfg.AdminIDs == "" {
			logger.Warn("admin_ids is empty: no one can review verification submissions")
		}
	}

	return nil
}

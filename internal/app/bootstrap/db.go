// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/filestore"
	"github.com/redteahq/redtea/internal/app/system/indexes"
)

// ConnectDB establishes the MongoDB connection and builds the storage and
// authorization dependencies the handlers need.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	clientOpts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	var files filestore.Store
	switch appCfg.StorageType {
	case "s3":
		s3Store, err := filestore.NewS3(ctx, filestore.S3Config{
			Region: appCfg.StorageS3Region,
			Bucket: appCfg.StorageS3Bucket,
			Prefix: appCfg.StorageS3Prefix,
			Expiry: appCfg.PresignExpiry,
		}, logger)
		if err != nil {
			return DBDeps{}, fmt.Errorf("init s3 storage: %w", err)
		}
		files = s3Store
		logger.Info("using S3 storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("region", appCfg.StorageS3Region),
		)
	default:
		files = filestore.NewNoop()
		logger.Warn("using noop storage backend; uploads will not persist")
	}

	admins := adminlist.Parse(appCfg.AdminIDs)
	logger.Info("admin allow-list loaded", zap.Int("count", admins.Len()))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Files:         files,
		Admins:        admins,
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. It runs on every
// startup and is idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}

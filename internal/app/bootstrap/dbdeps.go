// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/filestore"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Files is the object storage backend for verification documents and
	// post media.
	Files filestore.Store

	// Admins is the parsed allow-list of moderator identities.
	Admins *adminlist.List
}

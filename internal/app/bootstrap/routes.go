// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"

	adminfeature "github.com/redteahq/redtea/internal/app/features/admin"
	healthfeature "github.com/redteahq/redtea/internal/app/features/health"
	paymentsfeature "github.com/redteahq/redtea/internal/app/features/payments"
	postsfeature "github.com/redteahq/redtea/internal/app/features/posts"
	uploadsfeature "github.com/redteahq/redtea/internal/app/features/uploads"
	usersfeature "github.com/redteahq/redtea/internal/app/features/users"
	webhookfeature "github.com/redteahq/redtea/internal/app/features/webhook"
	"github.com/redteahq/redtea/internal/app/store/adminactions"
	commentstore "github.com/redteahq/redtea/internal/app/store/comments"
	paymentstore "github.com/redteahq/redtea/internal/app/store/payments"
	poststore "github.com/redteahq/redtea/internal/app/store/posts"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
)

// insecureVerifier accepts every delivery. Only used outside production
// when no webhook secret is configured.
type insecureVerifier struct{}

func (insecureVerifier) Verify([]byte, http.Header) error { return nil }

func newVerifier(secret string, coreCfg *config.CoreConfig, logger *zap.Logger, name string) (webhookfeature.Verifier, error) {
	if secret == "" {
		if coreCfg.Env == "prod" {
			return nil, fmt.Errorf("%s webhook secret is required in production", name)
		}
		logger.Warn("webhook signature verification disabled", zap.String("webhook", name))
		return insecureVerifier{}, nil
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("init %s webhook verifier: %w", name, err)
	}
	return wh, nil
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the stores, wires the
// feature handlers, and mounts each feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	users := userstore.New(db, deps.Admins)
	posts := poststore.New(db, deps.Admins)
	comments := commentstore.New(db)
	actions := adminactions.New(db)
	payments := paymentstore.New(db)

	clerkVerifier, err := newVerifier(appCfg.ClerkWebhookSecret, coreCfg, logger, "clerk")
	if err != nil {
		return nil, err
	}
	polarVerifier, err := newVerifier(appCfg.PolarWebhookSecret, coreCfg, logger, "polar")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Identity-provider and billing webhooks share the /webhooks prefix.
	webhookHandler := webhookfeature.NewHandler(users, clerkVerifier, logger)
	paymentsHandler := paymentsfeature.NewHandler(payments, users, polarVerifier, logger)
	wh := chi.NewRouter()
	webhookfeature.Register(wh, webhookHandler)
	paymentsfeature.Register(wh, paymentsHandler)
	r.Mount("/webhooks", wh)

	// Caller-facing account endpoints
	usersHandler := usersfeature.NewHandler(users, logger)
	r.Mount("/users/me", usersfeature.Routes(usersHandler))

	// Upload grants
	uploadsHandler := uploadsfeature.NewHandler(deps.Files, logger)
	r.Mount("/uploads", uploadsfeature.Routes(uploadsHandler))

	// Posts, votes, comments, and the feed
	postsHandler := postsfeature.NewHandler(posts, users, comments, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))
	r.Get("/feed", postsHandler.Feed)

	// Moderation
	adminHandler := adminfeature.NewHandler(users, posts, actions, deps.Files, deps.Admins, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	return r, nil
}

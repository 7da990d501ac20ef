package app

import (
	"marketplace-web/internal/audit"
	"marketplace-web/internal/config"
	"marketplace-web/internal/http"
	"marketplace-web/internal/identity"
	"marketplace-web/internal/rbac"
	"marketplace-web/internal/session"
	"marketplace-web/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service is the wired marketplace front: identity handle, session layer,
// route policy and HTTP server.
type Service struct {
	config   *config.Config
	logger   *zap.Logger
	identity *identity.App
	redis    *redis.Client
	checker  *rbac.Checker
	resolver *session.Resolver
	issuer   *session.Issuer
	metrics  *metrics.Metrics
	audit    *audit.Logger
	server   *http.Server
}

package app

import (
	"context"
	"time"

	"marketplace-web/internal/audit"
	"marketplace-web/internal/config"
	"marketplace-web/internal/http"
	"marketplace-web/internal/identity"
	"marketplace-web/internal/rbac"
	"marketplace-web/internal/rbac/presets"
	"marketplace-web/internal/session"
	apperrors "marketplace-web/pkg/errors"
	"marketplace-web/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// InitializeService wires every component from cfg. Errors are startup
// failures and the caller is expected to exit.
func InitializeService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	idp, err := identity.Initialize(identity.Credentials{
		ProjectID:   cfg.Identity.ProjectID,
		ClientEmail: cfg.Identity.ClientEmail,
		PrivateKey:  cfg.Identity.PrivateKey,
	})
	if err != nil {
		return nil, apperrors.Startup("initialize identity provider", err)
	}
	logger.Info("identity provider initialized",
		zap.String("project_id", idp.ProjectID()),
		zap.String("client_email", idp.ClientEmail()))

	svc := &Service{
		config:   cfg,
		logger:   logger,
		identity: idp,
		checker:  rbac.MustNew(presets.Marketplace()),
		metrics:  metrics.New(),
		audit:    audit.NewLogger(logger),
	}

	var store session.Store
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisStore := session.NewRedisStore(client, "")

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, apperrors.Startup("connect session store", err)
		}

		svc.redis = client
		store = redisStore
		logger.Info("session store connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("no session store configured, sessions cannot be revoked before expiry")
	}

	svc.resolver = session.NewResolver(idp.Auth(), store, cfg.Session.CookieName)
	svc.issuer = session.NewIssuer(idp.Auth(), store)

	svc.server, err = http.NewServer(&http.ServerDependencies{
		Config:   cfg,
		Checker:  svc.checker,
		Resolver: svc.resolver,
		Issuer:   svc.issuer,
		Metrics:  svc.metrics,
		Audit:    svc.audit,
		Logger:   logger,
	})
	if err != nil {
		svc.Close()
		return nil, apperrors.Startup("build http server", err)
	}

	return svc, nil
}

package app

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"marketplace-web/internal/audit"
	"marketplace-web/internal/config"
	"marketplace-web/internal/rbac"
	"marketplace-web/internal/session"

	"go.uber.org/zap"
)

const serverAddrPrefix = ":"

// Run serves HTTP until ctx is done, then shuts down within the configured
// shutdown timeout.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("port", s.config.Server.Port))
		if err := s.server.Start(serverAddrPrefix + s.config.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close releases the session store connection.
func (s *Service) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("closing session store", zap.Error(err))
		}
	}
}

// IssueSession mints a session outside of a browser sign-in, for support
// and testing.
func (s *Service) IssueSession(ctx context.Context, userID, role string, ttl time.Duration) (*session.Issued, error) {
	if _, err := s.checker.ValidateRole(role); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = s.config.Session.TTL
	}
	if err := config.ValidateSessionTTL(ttl); err != nil {
		return nil, err
	}

	issued, err := s.issuer.Issue(ctx, userID, role, ttl)
	var sessionID string
	if issued != nil {
		sessionID = issued.Session.ID
	}
	s.audit.LogOperator(userID, sessionID, audit.ActionIssue, map[string]any{
		"role": role,
		"ttl":  ttl.String(),
	}, err)
	return issued, err
}

func (s *Service) RevokeSession(ctx context.Context, sessionID string) error {
	if s.redis == nil {
		return session.ErrStoreUnavailable
	}
	err := s.issuer.Revoke(ctx, sessionID)
	s.audit.LogOperator("", sessionID, audit.ActionRevoke, nil, err)
	return err
}

func (s *Service) Checker() *rbac.Checker {
	return s.checker
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"marketplace-web/internal/audit"
	"marketplace-web/internal/auth"
	"marketplace-web/internal/session"
	apperrors "marketplace-web/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionRevoker is satisfied by *session.Issuer.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string) error
}

type SessionHandler struct {
	revoker  SessionRevoker
	resolver *session.Resolver
	audit    *audit.Logger
	logger   *zap.Logger
}

func NewSessionHandler(revoker SessionRevoker, resolver *session.Resolver, auditLog *audit.Logger, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(logger)
	}
	return &SessionHandler{revoker: revoker, resolver: resolver, audit: auditLog, logger: logger}
}

// SignOut revokes the current session, if any, clears the cookie and sends
// the visitor to the storefront. The cookie is cleared even when revocation
// fails so the browser stops presenting the token.
func (h *SessionHandler) SignOut(c echo.Context) error {
	secure := c.Scheme() == "https"
	c.SetCookie(h.resolver.ClearCookie(secure))

	if sess, ok := auth.GetSession(c); ok {
		err := h.revoker.Revoke(c.Request().Context(), sess.ID)
		h.audit.LogFromContext(c, sess.UserID, sess.ID, audit.ActionSignOut, err)
		if err != nil {
			h.logger.Error(msgSessionRevokeErr, zap.String("session_id", sess.ID), zap.Error(err))
			return apperrors.Unavailable(msgSignOutFailed, err)
		}
	}

	if wantsJSON(c.Request().Header.Get(echo.HeaderAccept)) {
		return respondMessage(c, http.StatusOK, msgSignedOut)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// wantsJSON matches "application/json" with or without media type
// parameters such as charset.
func wantsJSON(accept string) bool {
	return strings.HasPrefix(strings.TrimSpace(accept), echo.MIMEApplicationJSON)
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

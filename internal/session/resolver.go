package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace-web/internal/identity"
)

const (
	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2
)

// TokenVerifier checks a raw session token. *identity.AuthClient satisfies it.
type TokenVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*identity.Token, error)
}

// Resolver turns a request into a Session.
type Resolver struct {
	verifier   TokenVerifier
	store      Store
	cookieName string
}

// NewResolver builds a resolver. store may be nil, in which case a valid
// token alone is enough and sessions cannot be revoked early.
func NewResolver(verifier TokenVerifier, store Store, cookieName string) *Resolver {
	return &Resolver{
		verifier:   verifier,
		store:      store,
		cookieName: cookieName,
	}
}

// CookieName is the cookie the resolver reads the token from.
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// Resolve returns the request's session, or (nil, nil) when the visitor is
// not signed in, the token has expired, or the session was revoked. Errors
// wrap ErrResolution and mean the answer is unknown: the token is malformed
// or forged, or the store could not be reached.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*Session, error) {
	token := r.extractToken(req)
	if token == "" {
		return nil, nil
	}

	tok, err := r.verifier.VerifySessionToken(ctx, token)
	switch {
	case err == nil:
	case errors.Is(err, identity.ErrTokenExpired):
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: verify token: %w", ErrResolution, err)
	}

	if r.store == nil {
		return &Session{
			ID:        tok.SessionID,
			UserID:    tok.UserID,
			Role:      tok.Role,
			CreatedAt: tok.IssuedAt,
			ExpiresAt: tok.ExpiresAt,
		}, nil
	}

	sess, err := r.store.Get(ctx, tok.SessionID)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: load session %s: %w", ErrResolution, tok.SessionID, err)
	}

	// The record is authoritative for role, but it must belong to the
	// token's subject.
	if sess.UserID != tok.UserID {
		return nil, fmt.Errorf("%w: session %s belongs to another user", ErrResolution, tok.SessionID)
	}
	return sess, nil
}

func (r *Resolver) extractToken(req *http.Request) string {
	if cookie, err := req.Cookie(r.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := req.Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}
	return parts[1]
}

// Cookie builds the session cookie for token.
func (r *Resolver) Cookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session cookie.
func (r *Resolver) ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

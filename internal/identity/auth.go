package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

const (
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgMissingClaimFmt         = "missing %s claim"
	claimSubject               = "sub"
	claimSessionID             = "jti"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token is a verified session token.
type Token struct {
	UserID    string
	SessionID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthClient mints and verifies session tokens signed with the service
// account key.
type AuthClient struct {
	issuer   string
	audience string
	key      *rsa.PrivateKey
	now      func() time.Time
}

func newAuthClient(app *App) *AuthClient {
	return &AuthClient{
		issuer:   app.clientEmail,
		audience: app.projectID,
		key:      app.key,
		now:      time.Now,
	}
}

// CreateSessionToken signs a token for sessionID valid for ttl.
func (c *AuthClient) CreateSessionToken(userID, sessionID, role string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: "+msgMissingClaimFmt, ErrTokenInvalid, claimSubject)
	}
	if sessionID == "" {
		return "", fmt.Errorf("%w: "+msgMissingClaimFmt, ErrTokenInvalid, claimSessionID)
	}

	now := c.now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{c.audience},
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(c.key)
}

// VerifySessionToken checks signature, issuer, audience and lifetime.
// Expired tokens return ErrTokenExpired; anything else wrong returns
// ErrTokenInvalid.
func (c *AuthClient) VerifySessionToken(ctx context.Context, tokenString string) (*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return &c.key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: "+msgMissingClaimFmt, ErrTokenInvalid, claimSubject)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: "+msgMissingClaimFmt, ErrTokenInvalid, claimSessionID)
	}

	out := &Token{
		UserID:    claims.Subject,
		SessionID: claims.ID,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

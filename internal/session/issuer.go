package session

import (
	"context"
	"fmt"
	"time"

	"marketplace-web/pkg/validator"

	"github.com/google/uuid"
)

// TokenSigner mints session tokens. *identity.AuthClient satisfies it.
type TokenSigner interface {
	CreateSessionToken(userID, sessionID, role string, ttl time.Duration) (string, error)
}

// Issued is a freshly created session and its signed token.
type Issued struct {
	Session *Session
	Token   string
}

// Issuer creates and revokes sessions.
type Issuer struct {
	signer TokenSigner
	store  Store
	now    func() time.Time
}

// NewIssuer builds an issuer. With a nil store issued sessions cannot be
// revoked before they expire.
func NewIssuer(signer TokenSigner, store Store) *Issuer {
	return &Issuer{
		signer: signer,
		store:  store,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(ctx context.Context, userID, role string, ttl time.Duration) (*Issued, error) {
	if err := validator.UserID(userID); err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("issue session: ttl must be positive, got %s", ttl)
	}

	now := i.now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	token, err := i.signer.CreateSessionToken(sess.UserID, sess.ID, sess.Role, ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if i.store != nil {
		if err := i.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("record session: %w", err)
		}
	}

	return &Issued{Session: sess, Token: token}, nil
}

// Revoke ends a session early. Without a store this is a no-op.
func (i *Issuer) Revoke(ctx context.Context, sessionID string) error {
	if i.store == nil {
		return nil
	}
	if err := i.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session %s: %w", sessionID, err)
	}
	return nil
}

package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"marketplace-web/internal/config"
	"marketplace-web/internal/rbac"
	"marketplace-web/internal/session"
	apperrors "marketplace-web/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	escaped := strings.ReplaceAll(string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), "\n", `\n`)

	return &config.Config{
		Server: config.ServerConfig{Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second},
		Identity: config.IdentityConfig{
			ProjectID:   "marketplace-test",
			ClientEmail: "svc@marketplace-test.iam.example.com",
			PrivateKey:  escaped,
		},
		Redis:   config.RedisConfig{Addr: redisAddr},
		Session: config.SessionConfig{CookieName: "__session", TTL: time.Hour},
		Site:    config.SiteConfig{BaseURL: "http://localhost:3000"},
		Log:     config.LogConfig{Level: "info", Format: "json"},
	}
}

func TestInitializeService_WithStore(t *testing.T) {
	mr := miniredis.RunT(t)
	svc, err := InitializeService(testConfig(t, mr.Addr()), nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, "tech-1", "TECHNICIAN", 0)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+issued.Session.ID))
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.Session.ExpiresAt, time.Minute)

	require.NoError(t, svc.RevokeSession(ctx, issued.Session.ID))
	assert.False(t, mr.Exists("session:"+issued.Session.ID))
}

func TestInitializeService_Stateless(t *testing.T) {
	svc, err := InitializeService(testConfig(t, ""), nil)
	require.NoError(t, err)

	_, err = svc.IssueSession(context.Background(), "admin-1", "ADMIN", 10*time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.RevokeSession(context.Background(), "anything"), session.ErrStoreUnavailable)
}

func TestInitializeService_StoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := InitializeService(testConfig(t, addr), nil)

	assert.ErrorIs(t, err, apperrors.ErrStartup)
}

func TestIssueSession_UnknownRole(t *testing.T) {
	svc, err := InitializeService(testConfig(t, ""), nil)
	require.NoError(t, err)

	_, err = svc.IssueSession(context.Background(), "u1", "SUPERUSER", time.Minute)
	assert.ErrorIs(t, err, rbac.ErrInvalidRole)
}

func TestIssueSession_TTLOutOfRange(t *testing.T) {
	mr := miniredis.RunT(t)
	svc, err := InitializeService(testConfig(t, mr.Addr()), nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	for _, ttl := range []time.Duration{time.Second, 30 * 24 * time.Hour} {
		issued, err := svc.IssueSession(context.Background(), "u1", "CUSTOMER", ttl)
		assert.Error(t, err, "ttl %s", ttl)
		assert.Nil(t, issued)
	}
	assert.Empty(t, mr.Keys(), "no session is stored for a rejected ttl")
}

func TestRun_StopsOnCancel(t *testing.T) {
	svc, err := InitializeService(testConfig(t, ""), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

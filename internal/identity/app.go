// Package identity holds the process-wide identity-provider handle built
// from service-account credentials, and the auth client derived from it.
package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid identity credentials")
	ErrNotInitialized     = errors.New("identity provider not initialized")
)

const escapedNewline = `\n`

// Credentials is the service-account material the handle is built from.
type Credentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// App is an initialized identity-provider handle. It is immutable.
type App struct {
	projectID   string
	clientEmail string
	key         *rsa.PrivateKey
	auth        *AuthClient
}

// NormalizePrivateKey turns literal "\n" sequences, as found in keys pasted
// into environment variables, into real newlines.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, escapedNewline, "\n")
}

// NewApp builds a handle without registering it as the process default.
func NewApp(creds Credentials) (*App, error) {
	if creds.ProjectID == "" {
		return nil, fmt.Errorf("%w: project id is empty", ErrInvalidCredentials)
	}
	if creds.ClientEmail == "" {
		return nil, fmt.Errorf("%w: client email is empty", ErrInvalidCredentials)
	}
	if creds.PrivateKey == "" {
		return nil, fmt.Errorf("%w: private key is empty", ErrInvalidCredentials)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(NormalizePrivateKey(creds.PrivateKey)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %w", ErrInvalidCredentials, err)
	}

	app := &App{
		projectID:   creds.ProjectID,
		clientEmail: creds.ClientEmail,
		key:         key,
	}
	app.auth = newAuthClient(app)
	return app, nil
}

func (a *App) ProjectID() string   { return a.projectID }
func (a *App) ClientEmail() string { return a.clientEmail }

// Auth returns the authentication client derived from this handle.
func (a *App) Auth() *AuthClient {
	return a.auth
}

var (
	initMu     sync.Mutex
	defaultApp atomic.Pointer[App]
)

// Initialize returns the process default handle, constructing it from creds
// if none exists yet. The first successful construction wins; later calls,
// concurrent or not, get that same handle and their creds are ignored. A
// failed construction leaves no handle behind.
func Initialize(creds Credentials) (*App, error) {
	if app := defaultApp.Load(); app != nil {
		return app, nil
	}

	initMu.Lock()
	defer initMu.Unlock()

	if app := defaultApp.Load(); app != nil {
		return app, nil
	}

	app, err := NewApp(creds)
	if err != nil {
		return nil, err
	}
	defaultApp.Store(app)
	return app, nil
}

// Default returns the process handle once Initialize has succeeded.
func Default() (*App, error) {
	app := defaultApp.Load()
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

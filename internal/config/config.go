package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"marketplace-web/pkg/validator"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envIdPProjectID          = "IDP_PROJECT_ID"
	envIdPClientEmail        = "IDP_CLIENT_EMAIL"
	envIdPPrivateKey         = "IDP_PRIVATE_KEY"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envSessionCookieName     = "SESSION_COOKIE_NAME"
	envSessionTTL            = "SESSION_TTL"
	envSiteBaseURL           = "SITE_BASE_URL"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
	envEnableProfiling       = "ENABLE_PROFILING"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultRedisDB            = 0
	defaultSessionCookieName  = "__session"
	defaultSessionTTL         = 5 * 24 * time.Hour
	defaultSiteBaseURL        = "http://localhost:3000"
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
	minSessionTTL             = 5 * time.Minute
	maxSessionTTL             = 14 * 24 * time.Hour
)

const (
	errPortRequiredFmt         = "PORT must be set"
	errProjectIDRequiredFmt    = "IDP_PROJECT_ID must be set"
	errClientEmailRequiredFmt  = "IDP_CLIENT_EMAIL must be set"
	errClientEmailInvalidFmt   = "IDP_CLIENT_EMAIL is not an email address: %q"
	errPrivateKeyRequiredFmt   = "IDP_PRIVATE_KEY must be set"
	errCookieNameRequiredFmt   = "SESSION_COOKIE_NAME must not be empty"
	errSessionTTLRangeFmt      = "SESSION_TTL must be between %s and %s, got %s"
	errSiteBaseURLInvalidFmt   = "SITE_BASE_URL must be an absolute http(s) URL: %q"
	errLogFormatInvalidFmt     = "LOG_FORMAT must be json or console, got %q"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	logFormatJSON              = "json"
	logFormatConsole           = "console"
)

type Config struct {
	Server   ServerConfig
	Identity IdentityConfig
	Redis    RedisConfig
	Session  SessionConfig
	Site     SiteConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Profiling exposes pprof under /debug to ADMIN sessions.
	Profiling bool
}

// IdentityConfig is the service-account material for the identity provider.
// PrivateKey is kept exactly as supplied; newline escapes are normalized by
// the identity package.
type IdentityConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a session store is configured. Without one the
// session resolver only verifies tokens.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type SiteConfig struct {
	BaseURL string
}

// Secure reports whether the site is served over TLS.
func (c SiteConfig) Secure() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			Profiling:       getBoolEnv(envEnableProfiling),
		},
		Identity: IdentityConfig{
			ProjectID:   os.Getenv(envIdPProjectID),
			ClientEmail: os.Getenv(envIdPClientEmail),
			PrivateKey:  os.Getenv(envIdPPrivateKey),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(envRedisAddr),
			Password: os.Getenv(envRedisPassword),
			DB:       getIntEnv(envRedisDB, defaultRedisDB),
		},
		Session: SessionConfig{
			CookieName: getEnv(envSessionCookieName, defaultSessionCookieName),
			TTL:        getDurationEnv(envSessionTTL, defaultSessionTTL),
		},
		Site: SiteConfig{
			BaseURL: strings.TrimRight(getEnv(envSiteBaseURL, defaultSiteBaseURL), "/"),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if err := c.Identity.Validate(); err != nil {
		return err
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf(errCookieNameRequiredFmt)
	}

	if err := ValidateSessionTTL(c.Session.TTL); err != nil {
		return err
	}

	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(errSiteBaseURLInvalidFmt, c.Site.BaseURL)
	}

	if c.Log.Format != logFormatJSON && c.Log.Format != logFormatConsole {
		return fmt.Errorf(errLogFormatInvalidFmt, c.Log.Format)
	}

	return nil
}

// Validate checks presence only. Key parsing happens when the identity
// handle is constructed.
func (c IdentityConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf(errProjectIDRequiredFmt)
	}
	if c.ClientEmail == "" {
		return fmt.Errorf(errClientEmailRequiredFmt)
	}
	if err := validator.Email(c.ClientEmail); err != nil {
		return fmt.Errorf(errClientEmailInvalidFmt, c.ClientEmail)
	}
	if c.PrivateKey == "" {
		return fmt.Errorf(errPrivateKeyRequiredFmt)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// ValidateSessionTTL bounds every session lifetime, whether it comes from
// SESSION_TTL or from an operator issuing a session by hand.
func ValidateSessionTTL(ttl time.Duration) error {
	if ttl < minSessionTTL || ttl > maxSessionTTL {
		return fmt.Errorf(errSessionTTLRangeFmt, minSessionTTL, maxSessionTTL, ttl)
	}
	return nil
}

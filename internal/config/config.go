package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"
)

// SuiteEnvironment configures the verification suite (apicheck and the integration tests)
type SuiteEnvironment struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	// service under test
	BaseURL     string        `env:"BASE_URL,default=http://localhost:5000"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=10s"`

	// credentials accepted by the service
	Username string `env:"AUTH_USERNAME,default=supertest"`
	Password string `env:"AUTH_PASSWORD,default=superpassword"`

	// TokenLifetime is the service's token policy - the suite waits this long after
	// authorizing before checking that the token is rejected
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME,default=60s"`

	// backing store of the service: a sqlite file path or a postgres:// URL
	DBPath       string `env:"DB_PATH,required=true"`
	UploadsTable string `env:"UPLOADS_TABLE,default=uploads"`
	SkipTeardown bool   `env:"SKIP_TEARDOWN,default=false"`
}

// ServerEnvironment configures the reference uploads service
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=5000"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBodyBytes   int64         `env:"MAX_REQUEST_BODY_BYTES,default=65536"`

	// auth settings
	Username      string        `env:"AUTH_USERNAME,default=supertest"`
	Password      string        `env:"AUTH_PASSWORD,default=superpassword"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME,default=60s"`
	TokenSecret   string        `env:"TOKEN_SECRET,required=true"`

	// database settings
	DatabasePath        string        `env:"DATABASE_PATH,required=true"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

// MinTokenSecretLength is the minimum HS256 key size accepted for TOKEN_SECRET
const MinTokenSecretLength = 32

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewSuiteConfig loads environment variables and returns the suite configuration
func NewSuiteConfig() (*SuiteEnvironment, error) {
	var cfg SuiteEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateSuiteConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateServerConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSuiteConfig(cfg *SuiteEnvironment) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}

	if cfg.Username == "" {
		return fmt.Errorf("AUTH_USERNAME must not be empty")
	}
	if cfg.TokenLifetime < 0 {
		return fmt.Errorf("TOKEN_LIFETIME must not be negative")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be greater than 0")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("DB_PATH must be set")
	}
	return nil
}

func validateServerConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	if cfg.Username == "" {
		return fmt.Errorf("AUTH_USERNAME must not be empty")
	}
	if cfg.TokenLifetime <= 0 {
		return fmt.Errorf("TOKEN_LIFETIME must be greater than 0")
	}
	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return fmt.Errorf("TOKEN_SECRET must be at least %d bytes", MinTokenSecretLength)
	}

	if cfg.MaxRequestBodyBytes < 1 {
		return fmt.Errorf("MAX_REQUEST_BODY_BYTES must be at least 1")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

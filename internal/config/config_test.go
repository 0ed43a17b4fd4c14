package config

import (
	"strings"
	"testing"
	"time"
)

func TestNewSuiteConfigDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/uploads.db")

	cfg, err := NewSuiteConfig()
	if err != nil {
		t.Fatalf("NewSuiteConfig() returned error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:5000" {
		t.Errorf("expected default BASE_URL, got %s", cfg.BaseURL)
	}
	if cfg.TokenLifetime != 60*time.Second {
		t.Errorf("expected default TOKEN_LIFETIME of 60s, got %v", cfg.TokenLifetime)
	}
	if cfg.Username != "supertest" || cfg.Password != "superpassword" {
		t.Errorf("unexpected default credentials %s/%s", cfg.Username, cfg.Password)
	}
	if cfg.UploadsTable != "uploads" {
		t.Errorf("expected default table uploads, got %s", cfg.UploadsTable)
	}
}

func TestNewSuiteConfigRequiresDBPath(t *testing.T) {
	t.Setenv("DB_PATH", "")

	if _, err := NewSuiteConfig(); err == nil {
		t.Fatal("expected error when DB_PATH is not set")
	}
}

func TestValidateSuiteConfig(t *testing.T) {
	valid := func() SuiteEnvironment {
		return SuiteEnvironment{
			Environment:   "test",
			BaseURL:       "http://localhost:5000",
			HTTPTimeout:   time.Second,
			Username:      "supertest",
			TokenLifetime: time.Minute,
			DBPath:        "uploads.db",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*SuiteEnvironment)
		wantErr string
	}{
		{"valid", func(*SuiteEnvironment) {}, ""},
		{"bad environment", func(c *SuiteEnvironment) { c.Environment = "qa" }, "ENVIRONMENT"},
		{"relative base url", func(c *SuiteEnvironment) { c.BaseURL = "localhost:5000" }, "BASE_URL"},
		{"ftp base url", func(c *SuiteEnvironment) { c.BaseURL = "ftp://localhost" }, "BASE_URL"},
		{"empty username", func(c *SuiteEnvironment) { c.Username = "" }, "AUTH_USERNAME"},
		{"negative lifetime", func(c *SuiteEnvironment) { c.TokenLifetime = -time.Second }, "TOKEN_LIFETIME"},
		{"zero timeout", func(c *SuiteEnvironment) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := validateSuiteConfig(&cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewServerConfig(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/uploads.db")
	t.Setenv("TOKEN_SECRET", strings.Repeat("s", MinTokenSecretLength))
	t.Setenv("PORT", "5001")

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() returned error: %v", err)
	}
	if cfg.Port != 5001 {
		t.Errorf("expected port 5001, got %d", cfg.Port)
	}
	if cfg.TokenLifetime != time.Minute {
		t.Errorf("expected default token lifetime, got %v", cfg.TokenLifetime)
	}
}

func TestNewServerConfigRejectsShortSecret(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/uploads.db")
	t.Setenv("TOKEN_SECRET", "short")

	_, err := NewServerConfig()
	if err == nil || !strings.Contains(err.Error(), "TOKEN_SECRET") {
		t.Fatalf("expected TOKEN_SECRET error, got %v", err)
	}
}

func TestValidateServerConfigPort(t *testing.T) {
	cfg := ServerEnvironment{
		Environment:         "dev",
		Port:                70000,
		Username:            "supertest",
		TokenLifetime:       time.Minute,
		TokenSecret:         strings.Repeat("s", MinTokenSecretLength),
		MaxRequestBodyBytes: 1024,
	}
	if err := validateServerConfig(&cfg); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWith(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.HTTP.Port)
	}
	if cfg.JWT.ExpiresIn != 24*time.Hour {
		t.Errorf("expected 24h jwt expiry, got %v", cfg.JWT.ExpiresIn)
	}
	if cfg.Upload.MaxSize != 10*1024*1024 {
		t.Errorf("expected 10MiB upload limit, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Upload.Breakpoints.Small != 100 || cfg.Upload.Breakpoints.Medium != 300 || cfg.Upload.Breakpoints.Large != 600 {
		t.Errorf("unexpected breakpoints: %+v", cfg.Upload.Breakpoints)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("expected CORS origin from client url, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Auth.ResetTokenTTL != 10*time.Minute {
		t.Errorf("expected 10m reset ttl, got %v", cfg.Auth.ResetTokenTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CLIENT_URL", "https://ateleslie.org")
	t.Setenv("APP_DATABASE_DRIVER", "mongodb")

	cfg, err := LoadWith(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("expected jwt secret from env, got %q", cfg.JWT.Secret)
	}
	if cfg.Database.Driver != "mongodb" {
		t.Errorf("expected mongodb driver, got %q", cfg.Database.Driver)
	}
	if cfg.CORS.AllowedOrigins[0] != "https://ateleslie.org" {
		t.Errorf("expected CORS origin https://ateleslie.org, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ResetTokenTTLClamped(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_AUTH_RESET_TOKEN_TTL", "3h")

	cfg, err := LoadWith(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.ResetTokenTTL != time.Hour {
		t.Errorf("expected ttl clamped to 1h, got %v", cfg.Auth.ResetTokenTTL)
	}
}

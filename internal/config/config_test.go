package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "JWT_SECRET", "JWT_EXPIRY", "HASH_WORKERS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "5000")
	}
	if cfg.JWTExpiry != 0 {
		t.Errorf("JWTExpiry = %v, want 0 (no expiry)", cfg.JWTExpiry)
	}
	if cfg.HashWorkers < 1 {
		t.Errorf("HashWorkers = %d, want >= 1", cfg.HashWorkers)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "72h")
	t.Setenv("HASH_WORKERS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("S3_BUCKET", "avatars")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.JWTExpiry != 72*time.Hour {
		t.Errorf("JWTExpiry = %v, want 72h", cfg.JWTExpiry)
	}
	if cfg.HashWorkers != 3 {
		t.Errorf("HashWorkers = %d, want 3", cfg.HashWorkers)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.S3.Bucket != "avatars" {
		t.Errorf("S3.Bucket = %q, want %q", cfg.S3.Bucket, "avatars")
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("HASH_WORKERS", "lots")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.JWTExpiry != 0 {
		t.Errorf("JWTExpiry = %v, want 0", cfg.JWTExpiry)
	}
	if cfg.HashWorkers < 1 {
		t.Errorf("HashWorkers = %d, want >= 1", cfg.HashWorkers)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrDefaultSecretInProduction) {
		t.Fatalf("Load() error = %v, want ErrDefaultSecretInProduction", err)
	}

	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("SHIPPING_FEE", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := FromEnv()
	if cfg.StorageDriver != "file" || cfg.Port == "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.AccessTokenTTL != 12*time.Hour {
		t.Fatalf("expected 12h access ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.ShippingFee != 5000 {
		t.Fatalf("expected default shipping fee, got %v", cfg.ShippingFee)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "3")
	t.Setenv("SHIPPING_FEE", "7500.5")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := FromEnv()
	if cfg.AccessTokenTTL != 3*time.Hour {
		t.Fatalf("expected 3h, got %v", cfg.AccessTokenTTL)
	}
	if cfg.ShippingFee != 7500.5 {
		t.Fatalf("expected 7500.5, got %v", cfg.ShippingFee)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "-2")
	t.Setenv("SHIPPING_FEE", "free")

	cfg := FromEnv()
	if cfg.AccessTokenTTL != 12*time.Hour || cfg.ShippingFee != 5000 {
		t.Fatalf("invalid values should fall back to defaults, got %v / %v", cfg.AccessTokenTTL, cfg.ShippingFee)
	}
}

func TestValidate(t *testing.T) {
	ok := Config{JWTSecret: "s", StorageDriver: "memory", UploadDriver: "local"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []Config{
		{StorageDriver: "memory", UploadDriver: "local"},
		{JWTSecret: "s", StorageDriver: "mongo", UploadDriver: "local"},
		{JWTSecret: "s", StorageDriver: "redis", UploadDriver: "local"},
		{JWTSecret: "s", StorageDriver: "file", UploadDriver: "gcs"},
		{JWTSecret: "s", StorageDriver: "file", UploadDriver: "s3"},
	}
	for _, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

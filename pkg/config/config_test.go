package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("SECRET_NAME", "")
	t.Setenv("SITE_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AWSRegion != "us-east-1" {
		t.Errorf("AWSRegion = %q, want us-east-1", cfg.AWSRegion)
	}
	if cfg.SecretName != "mtlockeyer-aws-secrets" {
		t.Errorf("SecretName = %q, want mtlockeyer-aws-secrets", cfg.SecretName)
	}
	if cfg.SiteBaseURL != "https://myschools.nyc" {
		t.Errorf("SiteBaseURL = %q, want https://myschools.nyc", cfg.SiteBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AWS_REGION", "us-west-2")
	t.Setenv("SECRET_NAME", "watcher-secrets")
	t.Setenv("SITE_BASE_URL", "https://example.test")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AWSRegion != "us-west-2" {
		t.Errorf("AWSRegion = %q, want us-west-2", cfg.AWSRegion)
	}
	if cfg.SecretName != "watcher-secrets" {
		t.Errorf("SecretName = %q, want watcher-secrets", cfg.SecretName)
	}
	if cfg.SiteBaseURL != "https://example.test" {
		t.Errorf("SiteBaseURL = %q, want https://example.test", cfg.SiteBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "non numeric", value: "ten"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HTTP_TIMEOUT_SECONDS", tt.value)
			if _, err := Load(); err == nil {
				t.Error("Load() succeeded with invalid timeout, want error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		AWSRegion:   "us-east-1",
		SecretName:  "name",
		SiteBaseURL: "https://example.test",
		HTTPTimeout: time.Second,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.SecretName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() succeeded with empty secret name, want error")
	}
}

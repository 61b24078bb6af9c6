// Package config loads the watcher's runtime configuration from environment
// variables. Everything that varies per deployment arrives in the invocation
// payload instead; only process-level settings live here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for the watcher Lambda.
type Config struct {
	// AWSRegion is the region for all AWS clients.
	AWSRegion string

	// SecretName is the Secrets Manager entry holding the site password and
	// student id.
	SecretName string

	// SiteBaseURL is the school-choice site origin.
	SiteBaseURL string

	// HTTPTimeout bounds each site request.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where the deployment does not override them.
func Load() (*Config, error) {
	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		awsRegion = "us-east-1"
	}

	secretName := os.Getenv("SECRET_NAME")
	if secretName == "" {
		// historical name, typo included; the deployed secret spells it this way
		secretName = "mtlockeyer-aws-secrets"
	}

	siteBaseURL := os.Getenv("SITE_BASE_URL")
	if siteBaseURL == "" {
		siteBaseURL = "https://myschools.nyc"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("HTTP_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS value: %s", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	return &Config{
		AWSRegion:   awsRegion,
		SecretName:  secretName,
		SiteBaseURL: siteBaseURL,
		HTTPTimeout: timeout,
	}, nil
}

// MustLoad loads configuration and panics on error. Used at Lambda startup
// where a configuration error should prevent the handler from registering.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.AWSRegion == "" {
		return fmt.Errorf("AWS region is required")
	}
	if c.SecretName == "" {
		return fmt.Errorf("secret name is required")
	}
	if c.SiteBaseURL == "" {
		return fmt.Errorf("site base URL is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}
	return nil
}

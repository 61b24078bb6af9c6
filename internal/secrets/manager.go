package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretValue represents a generic secret value.
type SecretValue map[string]string

// SiteCredentials is the login material the watcher needs beyond the
// username carried in the invocation payload.
type SiteCredentials struct {
	Password  string `json:"site-pw"`
	StudentID string `json:"student-id"`
}

type cachedSecret struct {
	Value     SecretValue
	ExpiresAt time.Time
}

// Manager handles AWS Secrets Manager reads with a short TTL cache so a
// retried invocation does not refetch the same secret.
type Manager struct {
	client    *secretsmanager.Client
	logger    *slog.Logger
	cache     map[string]*cachedSecret
	cacheLock sync.RWMutex
	cacheTTL  time.Duration
}

// NewManager creates a new secrets manager with caching.
func NewManager(cfg aws.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:   secretsmanager.NewFromConfig(cfg),
		logger:   logger,
		cache:    make(map[string]*cachedSecret),
		cacheTTL: 5 * time.Minute,
	}
}

// GetSecret retrieves a secret and parses its JSON body into a key/value map.
func (m *Manager) GetSecret(ctx context.Context, secretName string) (SecretValue, error) {
	if cached := m.getFromCache(secretName); cached != nil {
		m.logger.DebugContext(ctx, "secret cache hit")
		return cached.Value, nil
	}

	result, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		// never log the secret name alongside the error
		m.logger.ErrorContext(ctx, "failed to retrieve secret", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve secret: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret has no string value")
	}

	var value SecretValue
	if err := json.Unmarshal([]byte(*result.SecretString), &value); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	m.putInCache(secretName, value)
	return value, nil
}

// GetSiteCredentials retrieves and validates the watcher's site credentials.
func (m *Manager) GetSiteCredentials(ctx context.Context, secretName string) (*SiteCredentials, error) {
	value, err := m.GetSecret(ctx, secretName)
	if err != nil {
		return nil, err
	}

	creds := &SiteCredentials{
		Password:  value["site-pw"],
		StudentID: value["student-id"],
	}
	if creds.Password == "" || creds.StudentID == "" {
		return nil, fmt.Errorf("secret missing required site fields (site-pw, student-id)")
	}

	m.logger.DebugContext(ctx, "site credentials retrieved")
	return creds, nil
}

func (m *Manager) getFromCache(secretName string) *cachedSecret {
	m.cacheLock.RLock()
	defer m.cacheLock.RUnlock()

	cached, ok := m.cache[secretName]
	if !ok || time.Now().After(cached.ExpiresAt) {
		return nil
	}
	return cached
}

func (m *Manager) putInCache(secretName string, value SecretValue) {
	m.cacheLock.Lock()
	defer m.cacheLock.Unlock()

	m.cache[secretName] = &cachedSecret{
		Value:     value,
		ExpiresAt: time.Now().Add(m.cacheTTL),
	}
}

// ClearCache drops all cached secrets.
func (m *Manager) ClearCache() {
	m.cacheLock.Lock()
	defer m.cacheLock.Unlock()

	m.cache = make(map[string]*cachedSecret)
}

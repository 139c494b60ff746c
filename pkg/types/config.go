package types

import (
	"encoding/base64"
	"fmt"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Used to build tracking links in outgoing email
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	ReferencePrefix string `envconfig:"REFERENCE_PREFIX" default:"SPA"`

	// Storage: "supabase" or "s3"
	StorageProvider    string `envconfig:"STORAGE_PROVIDER" default:"supabase"`
	StorageBucketName  string `envconfig:"STORAGE_BUCKET_NAME" default:"project-files"`
	SupabaseURL        string `envconfig:"SUPABASE_URL"`
	SupabaseServiceKey string `envconfig:"SUPABASE_SERVICE_KEY"`

	// Supabase Auth
	SupabaseJWKSURL string `envconfig:"SUPABASE_JWKS_URL"`

	// Email + queue
	EmailFromAddress  string `envconfig:"EMAIL_FROM_ADDRESS"`
	AMQPURL           string `envconfig:"AMQP_URL"`
	NotificationQueue string `envconfig:"NOTIFICATION_QUEUE" default:"notifications.email"`

	// PIN attempt throttling is off unless explicitly enabled
	RedisURL              string `envconfig:"REDIS_URL"`
	PinRateLimitEnabled   bool   `envconfig:"PIN_RATE_LIMIT_ENABLED" default:"false"`
	PinRateLimitAttempts  int    `envconfig:"PIN_RATE_LIMIT_ATTEMPTS" default:"5"`
	PinRateLimitWindowSec int    `envconfig:"PIN_RATE_LIMIT_WINDOW_SEC" default:"900"`

	// Number of reverse proxies in front of the server. Zero ignores X-Forwarded-For.
	TrustedProxyHops int `envconfig:"TRUSTED_PROXY_HOPS" default:"0"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CookieKeys decodes the base64 cookie keys. An empty block key disables
// encryption and leaves values signed only.
func (c *Config) CookieKeys() (hashKey, blockKey []byte, err error) {
	hashKey, err = base64.StdEncoding.DecodeString(c.CookieHashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}

	if c.CookieBlockKey == "" {
		return hashKey, nil, nil
	}

	blockKey, err = base64.StdEncoding.DecodeString(c.CookieBlockKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("cookie block key must decode to 16, 24, or 32 bytes, got %d", len(blockKey))
	}

	return hashKey, blockKey, nil
}

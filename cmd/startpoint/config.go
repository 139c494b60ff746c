package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.CookieHashKey == "" {
		return nil, fmt.Errorf("set COOKIE_HASH_KEY")
	}

	if _, _, err := c.CookieKeys(); err != nil {
		return nil, err
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.SupabaseJWKSURL == "" && c.SupabaseURL != "" {
		c.SupabaseJWKSURL = strings.TrimRight(c.SupabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	}

	switch c.StorageProvider {
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("set SUPABASE_URL and SUPABASE_SERVICE_KEY for the supabase storage provider")
		}
	case "s3":
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}

	if c.TrustedProxyHops < 0 {
		return nil, fmt.Errorf("TRUSTED_PROXY_HOPS cannot be negative")
	}

	if c.PinRateLimitEnabled && c.RedisURL == "" {
		return nil, fmt.Errorf("set REDIS_URL when PIN_RATE_LIMIT_ENABLED is true")
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

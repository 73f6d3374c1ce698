package app_config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// This is the tunables config for the api server. Secrets and connection
// strings come from env, this file only holds behaviour knobs.
type ServerAppConfig struct {
	// Lifetime of issued bearer tokens.
	TOKEN_TTL_HOURS int `yaml:"TOKEN_TTL_HOURS"`
	// Requests per minute per client ip on /api/auth routes.
	RATE_LIMIT_PER_MINUTE int64 `yaml:"RATE_LIMIT_PER_MINUTE"`
	// How long upstream news responses are cached in redis. 0 disables the
	// cache even when redis is configured.
	UPSTREAM_CACHE_TTL_SECOND int `yaml:"UPSTREAM_CACHE_TTL_SECOND"`
	// TTL handed to push services for undelivered notifications.
	PUSH_TTL_SECOND int `yaml:"PUSH_TTL_SECOND"`
	// Timeout of outbound http calls, news api and push services.
	HTTP_TIMEOUT_SECOND int `yaml:"HTTP_TIMEOUT_SECOND"`
}

func DefaultServerAppConfig() ServerAppConfig {
	return ServerAppConfig{
		TOKEN_TTL_HOURS:           7 * 24,
		RATE_LIMIT_PER_MINUTE:     60,
		UPSTREAM_CACHE_TTL_SECOND: 0,
		PUSH_TTL_SECOND:           30,
		HTTP_TIMEOUT_SECOND:       10,
	}
}

// ParseServerAppConfig reads the yaml file at path on top of the defaults.
// An empty path returns the defaults.
func ParseServerAppConfig(path string) (ServerAppConfig, error) {
	c := DefaultServerAppConfig()
	if path == "" {
		return c, nil
	}
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "fail to read server app config")
	}
	if err := yaml.Unmarshal(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "fail to parse server app config")
	}
	return c, nil
}

func (c ServerAppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TOKEN_TTL_HOURS) * time.Hour
}

func (c ServerAppConfig) UpstreamCacheTTL() time.Duration {
	return time.Duration(c.UPSTREAM_CACHE_TTL_SECOND) * time.Second
}

func (c ServerAppConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP_TIMEOUT_SECOND) * time.Second
}

package categorylisting

import (
	"time"

	"product-recommender/internal/common/config"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewConfig reads the categories endpoint from the catalog section; a non-positive
// timeout falls back to five seconds.
func NewConfig(catalog config.CatalogConfig, cache config.CacheConfig) *Config {
	timeout := config.GetDuration(catalog.Timeout)
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Config{
		BaseURL:  catalog.BaseURL,
		Timeout:  timeout,
		CacheTTL: config.GetTTL(cache.CategoriesTTL),
	}
}

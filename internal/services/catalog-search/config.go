package catalogsearch

import (
	"time"

	"product-recommender/internal/common/config"
)

type Config struct {
	BaseURL string
	// Index is the Elasticsearch index searched by ESCatalog.
	Index   string
	Timeout time.Duration
}

func NewConfig(cfg config.CatalogConfig) *Config {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		BaseURL: cfg.BaseURL,
		Index:   cfg.Index,
		Timeout: timeout,
	}
}

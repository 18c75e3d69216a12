package weatherlookup

import (
	"time"

	"product-recommender/internal/common/config"
)

type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func NewConfig(apis config.WeatherConfig, cache config.CacheConfig) *Config {
	timeout := config.GetDuration(apis.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{
		BaseURL:  apis.BaseURL,
		APIKey:   apis.APIKey,
		Timeout:  timeout,
		CacheTTL: config.GetTTL(cache.WeatherTTL),
	}
}

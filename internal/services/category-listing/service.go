// Package categorylisting fetches the catalog's category names for the weather prompt.
package categorylisting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"product-recommender/internal/common/database"
	apperrors "product-recommender/internal/common/errors"
	httpclient "product-recommender/internal/common/http"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/metrics"
)

const (
	ServiceName = "category-listing"
	cacheKey    = "catalog:categories"
	// NoCategories is rendered into the prompt when the list is empty.
	NoCategories = "No categories available"
)

type Service struct {
	config *Config
	client *httpclient.Client
	cache  *database.RedisClient
	logger logger.Logger
}

func NewService(config *Config, cache *database.RedisClient, log logger.Logger) *Service {
	return &Service{
		config: config,
		client: httpclient.NewClient("categories", config.Timeout),
		cache:  cache,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
		}),
	}
}

// List returns the catalog category names; failures yield an empty list.
func (s *Service) List(ctx context.Context) []string {
	if cached, ok := s.fromCache(ctx); ok {
		return cached
	}

	var raw []json.RawMessage
	if err := s.client.GetJSON(ctx, strings.TrimRight(s.config.BaseURL, "/")+"/products/categories", nil, &raw); err != nil {
		stdErr := apperrors.NewUpstreamError(apperrors.ErrCodeCategoryListingFailed, ServiceName, err)
		s.logger.Warn("category listing failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		return []string{}
	}

	categories := parseCategories(raw)
	if len(categories) > 0 {
		s.toCache(ctx, categories)
	}
	return categories
}

// Join renders categories the way the prompt expects them.
func Join(categories []string) string {
	if len(categories) == 0 {
		return NoCategories
	}
	return strings.Join(categories, ", ")
}

// parseCategories accepts both the legacy string array and the {slug, name, url} object array.
func parseCategories(raw []json.RawMessage) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			out = append(out, strings.TrimSpace(string(item)))
			continue
		}
		switch {
		case obj.Name != "":
			out = append(out, obj.Name)
		case obj.Slug != "":
			out = append(out, obj.Slug)
		}
	}
	return out
}

func (s *Service) fromCache(ctx context.Context) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	var categories []string
	err := s.cache.GetJSON(ctx, cacheKey, &categories)
	if err == nil && len(categories) > 0 {
		metrics.UpstreamRequests.WithLabelValues("categories", metrics.OutcomeCacheHit).Inc()
		return categories, true
	}
	if err != nil && !errors.Is(err, database.ErrCacheMiss) {
		s.logger.Warn("category cache read failed", map[string]interface{}{
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
			"error":     err.Error(),
		})
	}
	return nil, false
}

func (s *Service) toCache(ctx context.Context, categories []string) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, cacheKey, categories, s.config.CacheTTL); err != nil {
		s.logger.Warn("category cache write failed", map[string]interface{}{
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
			"error":     err.Error(),
		})
	}
}

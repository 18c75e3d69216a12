package weatherlookup

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"product-recommender/internal/common/database"
	apperrors "product-recommender/internal/common/errors"
	httpclient "product-recommender/internal/common/http"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/metrics"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

const ServiceName = "weather-lookup"

// Service fetches current conditions for a location. A nil cache disables caching.
type Service struct {
	config *Config
	client *httpclient.Client
	cache  *database.RedisClient
	obs    *observability.Observability
	logger logger.Logger
}

func NewService(config *Config, cache *database.RedisClient, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{
		config: config,
		client: httpclient.NewClient("weather", config.Timeout),
		cache:  cache,
		obs:    obs,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
		}),
	}
}

func cacheKey(location string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(location))
}

// Lookup returns the current snapshot for location, or models.UnknownWeather() on any failure.
func (s *Service) Lookup(ctx context.Context, location string) models.WeatherSnapshot {
	ctx, span := s.obs.StartSpan(ctx, "weather.lookup", attribute.String("weather.location", location))
	defer span.End()

	if cached, ok := s.fromCache(ctx, location); ok {
		span.SetAttributes(attribute.Bool("weather.cache_hit", true))
		return cached
	}

	snapshot, err := s.fetch(ctx, location)
	if err != nil {
		span.RecordError(err)
		stdErr := apperrors.NewUpstreamError(apperrors.ErrCodeWeatherLookupFailed, ServiceName, err)
		s.logger.Warn("weather lookup failed, using unknown conditions", map[string]interface{}{
			"location":  location,
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		return models.UnknownWeather()
	}

	s.toCache(ctx, location, snapshot)
	return snapshot
}

func (s *Service) fetch(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("key", s.config.APIKey)
	params.Set("q", location)
	params.Set("aqi", "no")

	var resp currentResponse
	if err := s.client.GetJSON(ctx, strings.TrimRight(s.config.BaseURL, "/")+"/v1/current.json", params, &resp); err != nil {
		return models.WeatherSnapshot{}, err
	}
	return resp.snapshot()
}

func (s *Service) fromCache(ctx context.Context, location string) (models.WeatherSnapshot, bool) {
	if s.cache == nil {
		return models.WeatherSnapshot{}, false
	}
	var snapshot models.WeatherSnapshot
	err := s.cache.GetJSON(ctx, cacheKey(location), &snapshot)
	if err == nil && !snapshot.IsUnknown() {
		metrics.UpstreamRequests.WithLabelValues("weather", metrics.OutcomeCacheHit).Inc()
		return snapshot, true
	}
	if err != nil && !errors.Is(err, database.ErrCacheMiss) {
		s.logger.Warn("weather cache read failed", map[string]interface{}{
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
			"error":     err.Error(),
		})
	}
	return models.WeatherSnapshot{}, false
}

func (s *Service) toCache(ctx context.Context, location string, snapshot models.WeatherSnapshot) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, cacheKey(location), snapshot, s.config.CacheTTL); err != nil {
		s.logger.Warn("weather cache write failed", map[string]interface{}{
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
			"error":     err.Error(),
		})
	}
}

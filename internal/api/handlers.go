package api

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
	categorylisting "product-recommender/internal/services/category-listing"
	seasonclassifier "product-recommender/internal/services/season-classifier"
)

const (
	VariantCatalog = "catalog"
	VariantWeather = "weather"
)

type Generator interface {
	Generate(ctx context.Context, fields map[string]any) (string, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, rawText string) models.ReconciliationResult
}

type WeatherProvider interface {
	Lookup(ctx context.Context, location string) models.WeatherSnapshot
}

type CategoryLister interface {
	List(ctx context.Context) []string
}

// CatalogHandler serves POST /recommend for the catalog recommender.
type CatalogHandler struct {
	generator  Generator
	reconciler Reconciler
	errors     *apperrors.ErrorHandler
	obs        *observability.Observability
}

func NewCatalogHandler(generator Generator, reconciler Reconciler, errs *apperrors.ErrorHandler, obs *observability.Observability) *CatalogHandler {
	return &CatalogHandler{generator: generator, reconciler: reconciler, errors: errs, obs: obs}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	// Downstream calls outlive a disconnected client; each carries its own timeout.
	ctx := context.WithoutCancel(r.Context())
	ctx, span := h.obs.StartSpan(ctx, "recommend.catalog", attribute.String("request.id", RequestID(ctx)))
	defer span.End()

	var req models.RecommendationRequest
	if err := decodeRequest(r, catalogRequestSchema, &req); err != nil {
		h.fail(ctx, w, r, err, start)
		return
	}

	text, err := h.generator.Generate(ctx, map[string]any{"user_prompt": req.UserPrompt})
	if err != nil {
		span.RecordError(err)
		h.fail(ctx, w, r, err, start)
		return
	}

	result := h.reconciler.Reconcile(ctx, text)
	if err := writeJSON(w, http.StatusOK, result); err != nil {
		h.fail(ctx, w, r, apperrors.NewInternalError(err), start)
		return
	}
	h.obs.RecordRecommendation(ctx, VariantCatalog, "success", time.Since(start))
}

func (h *CatalogHandler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	h.obs.RecordRecommendation(ctx, VariantCatalog, string(apperrors.Normalize(err).Code), time.Since(start))
	h.errors.WriteError(w, r, err)
}

// WeatherHandler serves POST /recommend for the weather-aware recommender.
type WeatherHandler struct {
	generator  Generator
	weather    WeatherProvider
	categories CategoryLister
	errors     *apperrors.ErrorHandler
	obs        *observability.Observability
	now        func() time.Time
}

func NewWeatherHandler(generator Generator, weather WeatherProvider, categories CategoryLister, errs *apperrors.ErrorHandler, obs *observability.Observability) *WeatherHandler {
	return &WeatherHandler{
		generator:  generator,
		weather:    weather,
		categories: categories,
		errors:     errs,
		obs:        obs,
		now:        time.Now,
	}
}

func (h *WeatherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := context.WithoutCancel(r.Context())
	ctx, span := h.obs.StartSpan(ctx, "recommend.weather", attribute.String("request.id", RequestID(ctx)))
	defer span.End()

	var req models.WeatherRecommendationRequest
	if err := decodeRequest(r, weatherRequestSchema, &req); err != nil {
		h.fail(ctx, w, r, err, start)
		return
	}

	season, err := seasonclassifier.ForDate(req.Date, h.now())
	if err != nil {
		h.fail(ctx, w, r, err, start)
		return
	}

	weather := h.weather.Lookup(ctx, req.Location)
	categories := h.categories.List(ctx)

	text, err := h.generator.Generate(ctx, WeatherPromptFields(req, weather, season, categories))
	if err != nil {
		span.RecordError(err)
		h.fail(ctx, w, r, err, start)
		return
	}

	err = writeJSON(w, http.StatusOK, models.WeatherRecommendationResponse{
		Recommendations: text,
		Weather:         weather,
		Season:          string(season),
		Location:        req.Location,
	})
	if err != nil {
		h.fail(ctx, w, r, apperrors.NewInternalError(err), start)
		return
	}
	h.obs.RecordRecommendation(ctx, VariantWeather, "success", time.Since(start))
}

func (h *WeatherHandler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	h.obs.RecordRecommendation(ctx, VariantWeather, string(apperrors.Normalize(err).Code), time.Since(start))
	h.errors.WriteError(w, r, err)
}

// WeatherPromptFields assembles every field the weather prompt set references.
func WeatherPromptFields(req models.WeatherRecommendationRequest, weather models.WeatherSnapshot, season seasonclassifier.Season, categories []string) map[string]any {
	return map[string]any{
		"user_prompt":         req.UserPrompt,
		"location":            req.Location,
		"temperature":         weather.Temperature,
		"feels_like":          weather.FeelsLike,
		"weather_conditions":  weather.Conditions,
		"weather_description": weather.Description,
		"humidity":            weather.Humidity,
		"wind_speed":          weather.WindSpeed,
		"uv_index":            weather.UVIndex,
		"uv_risk":             seasonclassifier.UVRisk(weather.UVIndex),
		"precipitation":       weather.Precipitation,
		"day_night":           weather.DayNight(),
		"season":              string(season),
		"categories":          categorylisting.Join(categories),
	}
}

// cmd/weather-recommender/main.go
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"product-recommender/internal/api"
	"product-recommender/internal/app"
	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/common/llm"
	categorylisting "product-recommender/internal/services/category-listing"
	recommendationgenerator "product-recommender/internal/services/recommendation-generator"
	weatherlookup "product-recommender/internal/services/weather-lookup"
)

const appName = "weather-recommender"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	ctx := context.Background()

	rt, err := app.Init(ctx, appName)
	if err != nil {
		zap.NewExample().Error("startup failed", zap.Error(err))
		return 1
	}
	defer rt.Close()

	cfg := rt.Config
	rt.Zap.Info("Starting weather recommender...", zap.Bool("cache", rt.Redis != nil))

	if cfg.APIs.Weather.APIKey == "" {
		rt.Zap.Warn("weather api key is empty, every lookup will fall back to unknown conditions")
	}

	model, err := llm.New(ctx, cfg.APIs)
	if err != nil {
		rt.Zap.Error("llm client init failed", zap.Error(err))
		return 1
	}

	weather := weatherlookup.NewService(weatherlookup.NewConfig(cfg.APIs.Weather, cfg.Cache), rt.Redis, rt.Obs, rt.Logger)
	categories := categorylisting.NewService(categorylisting.NewConfig(cfg.Catalog, cfg.Cache), rt.Redis, rt.Logger)
	generator := recommendationgenerator.NewGenerator(recommendationgenerator.WeatherPrompts(), model, rt.Obs, rt.Logger)

	recommend := api.NewWeatherHandler(generator, weather, categories, apperrors.NewErrorHandler(rt.Logger), rt.Obs)

	server := api.NewServer(api.Options{
		ServiceName: appName,
		Version:     cfg.App.Version,
		Server:      cfg.Server,
		Logger:      rt.Logger,
		Obs:         rt.Obs,
		Readiness:   rt.Readiness(nil),
	}, recommend)

	if err := rt.Serve(server.HTTPServer()); err != nil {
		rt.Zap.Error("server stopped with error", zap.Error(err))
		return 1
	}
	rt.Zap.Info("Weather recommender stopped")
	return 0
}

// cmd/catalog-recommender/main.go
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"product-recommender/internal/api"
	"product-recommender/internal/app"
	"product-recommender/internal/common/config"
	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/common/llm"
	catalogsearch "product-recommender/internal/services/catalog-search"
	productreconciler "product-recommender/internal/services/product-reconciler"
	recommendationgenerator "product-recommender/internal/services/recommendation-generator"
)

const appName = "catalog-recommender"

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
	rt.Zap.Info("Starting catalog recommender...", zap.String("catalogBackend", cfg.Catalog.Backend))

	model, err := llm.New(ctx, cfg.APIs)
	if err != nil {
		rt.Zap.Error("llm client init failed", zap.Error(err))
		return 1
	}

	catalogCfg := catalogsearch.NewConfig(cfg.Catalog)
	var catalog productreconciler.ProductCatalog
	readiness := map[string]api.ReadinessCheck{}
	switch cfg.Catalog.Backend {
	case config.CatalogBackendElasticsearch:
		es, err := rt.ConnectElasticsearch(ctx)
		if err != nil {
			rt.Zap.Error("elasticsearch failed after retries", zap.Error(err))
			return 1
		}
		catalog = catalogsearch.NewESCatalog(catalogCfg, es.Client, rt.Obs, rt.Logger)
		readiness["elasticsearch"] = es.Ping
	default:
		catalog = catalogsearch.NewClient(catalogCfg, rt.Obs, rt.Logger)
	}

	generator := recommendationgenerator.NewGenerator(recommendationgenerator.CatalogPrompts(), model, rt.Obs, rt.Logger)
	reconciler := productreconciler.NewReconciler(catalog, rt.Obs, rt.Logger)

	recommend := api.NewCatalogHandler(generator, reconciler, apperrors.NewErrorHandler(rt.Logger), rt.Obs)

	server := api.NewServer(api.Options{
		ServiceName: appName,
		Version:     cfg.App.Version,
		Server:      cfg.Server,
		Logger:      rt.Logger,
		Obs:         rt.Obs,
		Readiness:   rt.Readiness(readiness),
	}, recommend)

	if err := rt.Serve(server.HTTPServer()); err != nil {
		rt.Zap.Error("server stopped with error", zap.Error(err))
		return 1
	}
	rt.Zap.Info("Catalog recommender stopped")
	return 0
}

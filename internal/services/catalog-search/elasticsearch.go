package catalogsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel/attribute"

	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/metrics"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

// ESCatalog searches a products index in Elasticsearch with the same never-fail contract as Client.
type ESCatalog struct {
	config *Config
	client *elasticsearch.Client
	obs    *observability.Observability
	logger logger.Logger
}

func NewESCatalog(config *Config, client *elasticsearch.Client, obs *observability.Observability, log logger.Logger) *ESCatalog {
	return &ESCatalog{
		config: config,
		client: client,
		obs:    obs,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
			"backend": "elasticsearch",
			"index":   config.Index,
		}),
	}
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                 `json:"_id"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildSearchBody(query string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "brand^2", "category", "description"},
			},
		},
	}
}

func (e *ESCatalog) Search(ctx context.Context, query string, limit int) []models.ProductRecord {
	ctx, span := e.obs.StartSpan(ctx, "catalog.search.elasticsearch",
		attribute.String("catalog.query", query),
		attribute.Int("catalog.limit", limit),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	hits, err := e.search(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		e.logger.Warn("catalog search failed, returning empty results", map[string]interface{}{
			"query":     query,
			"errorCode": string(apperrors.ErrCodeCatalogSearchFailed),
			"error":     err.Error(),
		})
		return []models.ProductRecord{}
	}
	return hits
}

func (e *ESCatalog) search(ctx context.Context, query string, limit int) ([]models.ProductRecord, error) {
	body, err := json.Marshal(buildSearchBody(query, limit))
	if err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.config.Index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("catalog", metrics.OutcomeError).Inc()
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.UpstreamRequests.WithLabelValues("catalog", metrics.OutcomeStatus).Inc()
		return nil, fmt.Errorf("search query failed: %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		metrics.UpstreamRequests.WithLabelValues("catalog", metrics.OutcomeDecode).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("catalog", metrics.OutcomeSuccess).Inc()

	products := make([]models.ProductRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source == nil {
			hit.Source = map[string]interface{}{}
		}
		if _, ok := hit.Source["id"]; !ok {
			if n, err := strconv.Atoi(hit.ID); err == nil {
				hit.Source["id"] = float64(n)
			}
		}
		products = append(products, NormalizeProduct(hit.Source))
	}
	return products, nil
}

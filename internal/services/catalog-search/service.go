package catalogsearch

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "product-recommender/internal/common/errors"
	httpclient "product-recommender/internal/common/http"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

const (
	ServiceName = "catalog-search"
)

// Client searches the dummyjson-style catalog API. Search never fails: every upstream
// problem is logged and turned into an empty result.
type Client struct {
	config *Config
	client *httpclient.Client
	obs    *observability.Observability
	logger logger.Logger
}

func NewClient(config *Config, obs *observability.Observability, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient("catalog", config.Timeout),
		obs:    obs,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
		}),
	}
}

type searchResponse struct {
	Products []map[string]interface{} `json:"products"`
}

// Search returns up to limit products matching query. The query is forwarded unvalidated.
func (c *Client) Search(ctx context.Context, query string, limit int) []models.ProductRecord {
	ctx, span := c.obs.StartSpan(ctx, "catalog.search",
		attribute.String("catalog.query", query),
		attribute.Int("catalog.limit", limit),
	)
	defer span.End()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.client.GetJSON(ctx, strings.TrimRight(c.config.BaseURL, "/")+"/products/search", params, &resp); err != nil {
		span.RecordError(err)
		c.logFailure(query, err)
		return []models.ProductRecord{}
	}

	products := make([]models.ProductRecord, 0, len(resp.Products))
	for _, raw := range resp.Products {
		if raw == nil {
			continue
		}
		products = append(products, NormalizeProduct(raw))
	}

	c.logger.Debug("catalog search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(products),
	})
	return products
}

func (c *Client) logFailure(query string, err error) {
	stdErr := apperrors.NewUpstreamError(apperrors.ErrCodeCatalogSearchFailed, ServiceName, err)
	fields := map[string]interface{}{
		"query":     query,
		"errorCode": string(stdErr.Code),
		"error":     err.Error(),
	}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		fields["status"] = statusErr.StatusCode
	}
	if errors.Is(err, httpclient.ErrTimeout) {
		fields["timeout"] = c.config.Timeout.String()
	}
	c.logger.Warn("catalog search failed, returning empty results", fields)
}

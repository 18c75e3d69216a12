// Package productreconciler resolves the bulleted product names in model output against the catalog.
package productreconciler

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/metrics"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

const (
	ServiceName = "product-reconciler"
	// MaxCandidates caps how many bullet lines are looked up.
	MaxCandidates = 5
	bullet        = "-"
)

var parenthesized = regexp.MustCompile(`\(.*?\)`)

// ProductCatalog is the search capability the reconciler drives. Implementations absorb
// their own failures and report them as an empty result.
type ProductCatalog interface {
	Search(ctx context.Context, query string, limit int) []models.ProductRecord
}

type Reconciler struct {
	catalog ProductCatalog
	obs     *observability.Observability
	logger  logger.Logger
}

func NewReconciler(catalog ProductCatalog, obs *observability.Observability, log logger.Logger) *Reconciler {
	return &Reconciler{
		catalog: catalog,
		obs:     obs,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
		}),
	}
}

// ExtractCandidates returns the names on bullet lines, in order, capped at MaxCandidates.
// Names are not validated and may be empty.
func ExtractCandidates(rawText string) []string {
	var candidates []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, bullet) {
			continue
		}
		candidates = append(candidates, StripParenthesized(strings.TrimPrefix(line, bullet)))
		if len(candidates) == MaxCandidates {
			break
		}
	}
	return candidates
}

// StripParenthesized removes every (...) group, matching each "(" with the nearest ")",
// and trims the result.
func StripParenthesized(name string) string {
	return strings.TrimSpace(parenthesized.ReplaceAllString(name, ""))
}

// Outcomes looks up each candidate with limit 1, sequentially and in order.
func (r *Reconciler) Outcomes(ctx context.Context, rawText string) []models.CandidateOutcome {
	candidates := ExtractCandidates(rawText)
	outcomes := make([]models.CandidateOutcome, 0, len(candidates))
	for _, name := range candidates {
		if hits := r.catalog.Search(ctx, name, 1); len(hits) > 0 {
			outcomes = append(outcomes, models.Matched(name, hits[0]))
		} else {
			outcomes = append(outcomes, models.Unmatched(name))
		}
	}
	return outcomes
}

// Reconcile never fails. Unmatched candidates are dropped and the raw text is returned as is.
func (r *Reconciler) Reconcile(ctx context.Context, rawText string) models.ReconciliationResult {
	ctx, span := r.obs.StartSpan(ctx, "recommendation.reconcile")
	defer span.End()

	outcomes := r.Outcomes(ctx, rawText)
	products := Project(outcomes)

	unmatched := make([]string, 0)
	for _, o := range outcomes {
		if !o.IsMatched() {
			unmatched = append(unmatched, o.Candidate)
		}
	}

	span.SetAttributes(
		attribute.Int("reconcile.candidates", len(outcomes)),
		attribute.Int("reconcile.matched", len(products)),
	)
	metrics.ReconcileCandidates.Observe(float64(len(outcomes)))
	metrics.ReconcileMatched.Observe(float64(len(products)))
	r.obs.RecordProducts(ctx, len(products))

	r.logger.Info("recommendations reconciled", map[string]interface{}{
		"candidates": len(outcomes),
		"matched":    len(products),
		"unmatched":  unmatched,
	})

	return models.ReconciliationResult{
		RawText:  rawText,
		Products: products,
	}
}

// Project keeps the matched products in candidate order.
func Project(outcomes []models.CandidateOutcome) []models.ProductRecord {
	products := make([]models.ProductRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.IsMatched() {
			products = append(products, *o.Product)
		}
	}
	return products
}

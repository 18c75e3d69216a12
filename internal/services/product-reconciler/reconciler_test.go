package productreconciler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

// stubCatalog answers from a fixed table and records every query in order.
type stubCatalog struct {
	results map[string][]models.ProductRecord
	always  func(query string) []models.ProductRecord
	queries []string
	limits  []int
}

func (s *stubCatalog) Search(ctx context.Context, query string, limit int) []models.ProductRecord {
	s.queries = append(s.queries, query)
	s.limits = append(s.limits, limit)
	if s.always != nil {
		return s.always(query)
	}
	return s.results[query]
}

func product(title string) models.ProductRecord {
	return models.ProductRecord{Title: title, Price: models.FormatPrice(1)}
}

func newTestReconciler(t *testing.T, catalog ProductCatalog) *Reconciler {
	return NewReconciler(catalog, observability.NewNoop(), logger.NewTestLogger(t))
}

func TestExtractCandidates(t *testing.T) {
	raw := "- iPhone 15 (latest model)\n- Socks\nJust a note"
	assert.Equal(t, []string{"iPhone 15", "Socks"}, ExtractCandidates(raw))
}

func TestExtractCandidates_Variants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"indented bullets", "   - Umbrella (rain)\n\t- Raincoat", []string{"Umbrella", "Raincoat"}},
		{"crlf", "- Hat (sun)\r\n- Gloves\r\n", []string{"Hat", "Gloves"}},
		{"multiple groups", "- Tent (2 person) for camping (waterproof)", []string{"Tent  for camping"}},
		{"empty name", "- (just a reason)", []string{""}},
		{"numbered list ignored", "1. Boots\n2. Scarf", nil},
		{"asterisk ignored", "* Boots", nil},
		{"empty text", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCandidates(tt.raw))
		})
	}
}

func TestExtractCandidates_CapsAtFive(t *testing.T) {
	var lines []string
	for i := 1; i <= 8; i++ {
		lines = append(lines, fmt.Sprintf("- Item %d (reason %d)", i, i))
	}
	got := ExtractCandidates(strings.Join(lines, "\n"))
	assert.Equal(t, []string{"Item 1", "Item 2", "Item 3", "Item 4", "Item 5"}, got)
}

func TestStripParenthesized_Idempotent(t *testing.T) {
	inputs := []string{
		"iPhone 15 (latest model)",
		"a((b)c)",
		"(x) y (z",
		"no parens",
		"  spaced  (out)  ",
		"nested (a (b) c) end",
	}
	for _, in := range inputs {
		once := StripParenthesized(in)
		assert.Equal(t, once, StripParenthesized(once), in)
	}
	assert.Equal(t, "iPhone 15", StripParenthesized("iPhone 15 (latest model)"))
}

func TestReconcile_NoBulletLines(t *testing.T) {
	catalog := &stubCatalog{}
	raw := "Here are some ideas\n1. Boots\nEnjoy!"

	result := newTestReconciler(t, catalog).Reconcile(context.Background(), raw)

	assert.Equal(t, raw, result.RawText)
	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
	assert.Empty(t, catalog.queries)
}

func TestReconcile_CatalogAlwaysEmpty(t *testing.T) {
	catalog := &stubCatalog{always: func(string) []models.ProductRecord { return []models.ProductRecord{} }}
	raw := "- A\n- B\n- C\n- D\n- E\n- F"

	result := newTestReconciler(t, catalog).Reconcile(context.Background(), raw)

	assert.Empty(t, result.Products)
	assert.Equal(t, raw, result.RawText)
	assert.Len(t, catalog.queries, 5)
}

func TestReconcile_OneMatchPerQuery(t *testing.T) {
	for count := 0; count <= 7; count++ {
		t.Run(fmt.Sprintf("%d candidates", count), func(t *testing.T) {
			catalog := &stubCatalog{always: func(q string) []models.ProductRecord {
				return []models.ProductRecord{product("match " + q), product("second " + q)}
			}}
			var lines []string
			for i := 0; i < count; i++ {
				lines = append(lines, fmt.Sprintf("- P%d", i))
			}

			result := newTestReconciler(t, catalog).Reconcile(context.Background(), strings.Join(lines, "\n"))

			want := count
			if want > MaxCandidates {
				want = MaxCandidates
			}
			require.Len(t, result.Products, want)
			for i, p := range result.Products {
				assert.Equal(t, fmt.Sprintf("match P%d", i), p.Title)
			}
			for _, limit := range catalog.limits {
				assert.Equal(t, 1, limit)
			}
		})
	}
}

func TestReconcile_PartialMatch(t *testing.T) {
	iphone := product("Apple iPhone 15")
	catalog := &stubCatalog{results: map[string][]models.ProductRecord{
		"iPhone 15": {iphone},
	}}
	raw := "- iPhone 15 (latest model)\n- Socks\nJust a note"

	r := newTestReconciler(t, catalog)
	result := r.Reconcile(context.Background(), raw)

	require.Len(t, result.Products, 1)
	assert.Equal(t, iphone, result.Products[0])
	assert.Equal(t, raw, result.RawText)
	assert.Equal(t, []string{"iPhone 15", "Socks"}, catalog.queries)

	outcomes := r.Outcomes(context.Background(), raw)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].IsMatched())
	assert.Equal(t, "iPhone 15", outcomes[0].Candidate)
	assert.False(t, outcomes[1].IsMatched())
	assert.Equal(t, "Socks", outcomes[1].Candidate)
}

func TestReconcile_PreservesOrderAcrossMisses(t *testing.T) {
	catalog := &stubCatalog{results: map[string][]models.ProductRecord{
		"A": {product("a")},
		"C": {product("c")},
		"E": {product("e")},
	}}

	result := newTestReconciler(t, catalog).Reconcile(context.Background(), "- A\n- B\n- C\n- D\n- E")

	titles := make([]string, 0, len(result.Products))
	for _, p := range result.Products {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"a", "c", "e"}, titles)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, catalog.queries)
}

func TestProject(t *testing.T) {
	outcomes := []models.CandidateOutcome{
		models.Unmatched("x"),
		models.Matched("y", product("Y")),
	}
	assert.Equal(t, []models.ProductRecord{product("Y")}, Project(outcomes))
	assert.Empty(t, Project(nil))
}

package catalogsearch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"product-recommender/internal/models"
)

// NormalizeProduct maps one heterogeneous upstream product object onto ProductRecord,
// substituting the default for every field that is absent or of an unusable type.
func NormalizeProduct(raw map[string]interface{}) models.ProductRecord {
	price, _ := toFloat(raw["price"])
	discount, _ := toFloat(raw["discountPercentage"])
	rating, _ := toFloat(raw["rating"])
	stock, _ := toFloat(raw["stock"])
	id, _ := toFloat(raw["id"])

	return models.ProductRecord{
		ID:                 int(id),
		Title:              toString(raw["title"], models.DefaultProductTitle),
		Description:        toString(raw["description"], models.DefaultProductDescription),
		Price:              models.FormatPrice(price),
		DiscountPercentage: discount,
		Rating:             rating,
		Stock:              int(stock),
		Brand:              toString(raw["brand"], models.DefaultProductBrand),
		Category:           toString(raw["category"], models.DefaultProductCategory),
		Thumbnail:          toString(raw["thumbnail"], models.DefaultProductThumbnail),
		Images:             toStrings(raw["images"]),
	}
}

// toFloat rejects NaN and infinities so the field falls back to its default.
func toFloat(v interface{}) (float64, bool) {
	f, ok := parseFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toString(v interface{}, def string) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return def
}

func toStrings(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

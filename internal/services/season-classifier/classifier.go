// Package seasonclassifier derives the season and UV risk band injected into weather prompts.
package seasonclassifier

import (
	"fmt"
	"time"

	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/models"
)

type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// DateLayout is the accepted request date format.
const DateLayout = "2006-01-02"

// Classify maps a calendar month to its northern-hemisphere season.
func Classify(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// ForDate classifies dateStr, or now when dateStr is empty.
// A date that does not parse as YYYY-MM-DD is an INVALID_REQUEST error.
func ForDate(dateStr string, now time.Time) (Season, error) {
	if dateStr == "" {
		return Classify(now), nil
	}
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return "", apperrors.NewInvalidRequestError(fmt.Sprintf("date %q must use the YYYY-MM-DD format", dateStr))
	}
	return Classify(t), nil
}

// UVRisk buckets a UV index reading.
func UVRisk(uv models.Reading) string {
	if !uv.IsKnown() {
		return models.Unknown
	}
	switch v := uv.Value(); {
	case v <= 2:
		return "Low"
	case v <= 5:
		return "Moderate"
	case v <= 7:
		return "High"
	case v <= 10:
		return "Very High"
	default:
		return "Extreme"
	}
}

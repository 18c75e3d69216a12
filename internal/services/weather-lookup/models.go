package weatherlookup

import (
	"errors"

	"product-recommender/internal/models"
)

var errIncompletePayload = errors.New("weather payload is missing required fields")

// currentResponse mirrors current.json. Pointers distinguish absent fields from zero values.
type currentResponse struct {
	Current *struct {
		TempC      *float64 `json:"temp_c"`
		FeelsLikeC *float64 `json:"feelslike_c"`
		Humidity   *float64 `json:"humidity"`
		WindKph    *float64 `json:"wind_kph"`
		UV         *float64 `json:"uv"`
		PrecipMM   *float64 `json:"precip_mm"`
		IsDay      *int     `json:"is_day"`
		Condition  *struct {
			Text *string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (r *currentResponse) snapshot() (models.WeatherSnapshot, error) {
	c := r.Current
	if c == nil || c.TempC == nil || c.FeelsLikeC == nil || c.Humidity == nil || c.WindKph == nil ||
		c.UV == nil || c.PrecipMM == nil || c.IsDay == nil || c.Condition == nil || c.Condition.Text == nil {
		return models.WeatherSnapshot{}, errIncompletePayload
	}
	return models.WeatherSnapshot{
		Temperature:   models.Known(*c.TempC),
		FeelsLike:     models.Known(*c.FeelsLikeC),
		Conditions:    *c.Condition.Text,
		Description:   *c.Condition.Text,
		Humidity:      models.Known(*c.Humidity),
		WindSpeed:     models.Known(*c.WindKph),
		UVIndex:       models.Known(*c.UV),
		Precipitation: models.Known(*c.PrecipMM),
		IsDay:         *c.IsDay == 1,
	}, nil
}

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Unknown is the placeholder shown for any weather value that could not be obtained.
const Unknown = "unknown"

// Reading is a numeric weather value or Unknown. It marshals as a JSON number or "unknown".
type Reading struct {
	value float64
	known bool
}

func Known(v float64) Reading { return Reading{value: v, known: true} }

func UnknownReading() Reading { return Reading{} }

func (r Reading) IsKnown() bool { return r.known }

func (r Reading) Value() float64 { return r.value }

// String formats the value the way it appears in prompts.
func (r Reading) String() string {
	if !r.known {
		return Unknown
	}
	return strconv.FormatFloat(r.value, 'f', -1, 64)
}

func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.known {
		return json.Marshal(Unknown)
	}
	return json.Marshal(r.value)
}

func (r *Reading) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*r = Reading{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Known(v)
	return nil
}

// WeatherSnapshot is either fully populated from the weather API or the all-unknown sentinel.
type WeatherSnapshot struct {
	Temperature   Reading `json:"temperature"`
	FeelsLike     Reading `json:"feels_like"`
	Conditions    string  `json:"conditions"`
	Description   string  `json:"description"`
	Humidity      Reading `json:"humidity"`
	WindSpeed     Reading `json:"wind_speed"`
	UVIndex       Reading `json:"uv_index"`
	Precipitation Reading `json:"precipitation"`
	IsDay         bool    `json:"is_day"`
}

// UnknownWeather is the sentinel substituted when no snapshot could be fetched.
func UnknownWeather() WeatherSnapshot {
	return WeatherSnapshot{
		Conditions:  Unknown,
		Description: Unknown,
		IsDay:       true,
	}
}

// IsUnknown reports whether s is the sentinel.
func (s WeatherSnapshot) IsUnknown() bool {
	return !s.Temperature.IsKnown()
}

// DayNight returns "Day" or "Night".
func (s WeatherSnapshot) DayNight() string {
	if s.IsDay {
		return "Day"
	}
	return "Night"
}

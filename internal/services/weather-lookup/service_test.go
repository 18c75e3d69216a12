package weatherlookup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"product-recommender/internal/common/database"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
	"product-recommender/internal/models"
)

const parisPayload = `{
	"location": {"name": "Paris"},
	"current": {
		"temp_c": 18.5, "feelslike_c": 17, "humidity": 60, "wind_kph": 12.2,
		"uv": 4, "precip_mm": 0.3, "is_day": 0,
		"condition": {"text": "Partly cloudy"}
	}
}`

func newWeatherServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		assert.Equal(t, "/v1/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "no", r.URL.Query().Get("aqi"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func newTestService(t *testing.T, baseURL string, cache *database.RedisClient, ttl time.Duration) *Service {
	cfg := &Config{BaseURL: baseURL, APIKey: "test-key", Timeout: 2 * time.Second, CacheTTL: ttl}
	return NewService(cfg, cache, observability.NewNoop(), logger.NewTestLogger(t))
}

func TestLookup_Success(t *testing.T) {
	srv := newWeatherServer(t, http.StatusOK, parisPayload, nil)
	defer srv.Close()

	w := newTestService(t, srv.URL, nil, 0).Lookup(context.Background(), "Paris")

	assert.False(t, w.IsUnknown())
	assert.Equal(t, 18.5, w.Temperature.Value())
	assert.Equal(t, 17.0, w.FeelsLike.Value())
	assert.Equal(t, "Partly cloudy", w.Conditions)
	assert.Equal(t, "Partly cloudy", w.Description)
	assert.Equal(t, 60.0, w.Humidity.Value())
	assert.Equal(t, 12.2, w.WindSpeed.Value())
	assert.Equal(t, 4.0, w.UVIndex.Value())
	assert.Equal(t, 0.3, w.Precipitation.Value())
	assert.False(t, w.IsDay)
	assert.Equal(t, "Night", w.DayNight())
}

func TestLookup_FailuresYieldSentinel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusBadRequest, `{"error":{"code":1006,"message":"No matching location found."}}`},
		{"malformed json", http.StatusOK, `{"current":`},
		{"missing current", http.StatusOK, `{"location":{}}`},
		{"missing uv", http.StatusOK, `{"current":{"temp_c":1,"feelslike_c":1,"humidity":1,"wind_kph":1,"precip_mm":0,"is_day":1,"condition":{"text":"Sunny"}}}`},
		{"missing condition text", http.StatusOK, `{"current":{"temp_c":1,"feelslike_c":1,"humidity":1,"wind_kph":1,"uv":1,"precip_mm":0,"is_day":1,"condition":{}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newWeatherServer(t, tt.status, tt.body, nil)
			defer srv.Close()

			w := newTestService(t, srv.URL, nil, 0).Lookup(context.Background(), "Nowhere")
			assert.Equal(t, models.UnknownWeather(), w)
			assert.True(t, w.IsDay)
		})
	}
}

func TestLookup_UnreachableUpstreamDoesNotLogKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	cfg := &Config{BaseURL: base, APIKey: "test-key", Timeout: time.Second}
	svc := NewService(cfg, nil, observability.NewNoop(), logger.NewZapAdapter(zap.New(core)))

	w := svc.Lookup(context.Background(), "Paris")

	assert.Equal(t, models.UnknownWeather(), w)
	require.Equal(t, 1, logs.Len())
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "test-key", field.Key)
		}
	}
}

func TestLookup_SentinelJSON(t *testing.T) {
	data, err := json.Marshal(models.UnknownWeather())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"temperature", "feels_like", "conditions", "description", "humidity", "wind_speed", "uv_index", "precipitation"} {
		assert.Equal(t, "unknown", decoded[key], key)
	}
	assert.Equal(t, true, decoded["is_day"])
}

func TestLookup_CachesSnapshots(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	var hits int32
	srv := newWeatherServer(t, http.StatusOK, parisPayload, &hits)
	defer srv.Close()

	svc := newTestService(t, srv.URL, cache, 10*time.Minute)
	first := svc.Lookup(context.Background(), "Paris")
	second := svc.Lookup(context.Background(), " paris ")

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("weather:paris"))
	assert.Equal(t, 10*time.Minute, mr.TTL("weather:paris"))
}

func TestLookup_SentinelNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	srv := newWeatherServer(t, http.StatusInternalServerError, `oops`, nil)
	defer srv.Close()

	w := newTestService(t, srv.URL, cache, time.Minute).Lookup(context.Background(), "Paris")
	assert.True(t, w.IsUnknown())
	assert.False(t, mr.Exists("weather:paris"))
}

func TestLookup_CacheErrorFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("weather:paris").SetErr(errors.New("connection refused"))

	srv := newWeatherServer(t, http.StatusOK, parisPayload, nil)
	defer srv.Close()

	w := newTestService(t, srv.URL, database.NewRedisFromClient(db), 0).Lookup(context.Background(), "Paris")
	assert.False(t, w.IsUnknown())
	assert.NoError(t, mock.ExpectationsWereMet())
}

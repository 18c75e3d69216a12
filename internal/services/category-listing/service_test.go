package categorylisting

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"product-recommender/internal/common/config"
	"product-recommender/internal/common/database"
	"product-recommender/internal/common/logger"
)

func newServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		assert.Equal(t, "/products/categories", r.URL.Path)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func newTestService(t *testing.T, url string, cache *database.RedisClient) *Service {
	return NewService(&Config{BaseURL: url, Timeout: 2 * time.Second, CacheTTL: time.Hour}, cache, logger.NewTestLogger(t))
}

func TestList_ResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"strings", `["beauty","fragrances","furniture"]`, []string{"beauty", "fragrances", "furniture"}},
		{"objects", `[{"slug":"beauty","name":"Beauty","url":"https://dummyjson.com/products/category/beauty"},{"slug":"home-decoration"}]`, []string{"Beauty", "home-decoration"}},
		{"empty", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tt.body, nil)
			defer srv.Close()

			assert.Equal(t, tt.want, newTestService(t, srv.URL, nil).List(context.Background()))
		})
	}
}

func TestList_FailureYieldsEmpty(t *testing.T) {
	for name, body := range map[string]string{"not a list": `{"categories":[]}`, "garbage": `<html>`} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body, nil)
			defer srv.Close()
			got := newTestService(t, srv.URL, nil).List(context.Background())
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	srv := newServer(t, http.StatusBadGateway, ``, nil)
	defer srv.Close()
	assert.Empty(t, newTestService(t, srv.URL, nil).List(context.Background()))
}

func TestList_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	var hits int32
	srv := newServer(t, http.StatusOK, `["beauty","groceries"]`, &hits)
	defer srv.Close()

	svc := newTestService(t, srv.URL, cache)
	assert.Equal(t, []string{"beauty", "groceries"}, svc.List(context.Background()))
	assert.Equal(t, []string{"beauty", "groceries"}, svc.List(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, time.Hour, mr.TTL(cacheKey))
}

func TestList_CacheDownStillFetches(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	srv := newServer(t, http.StatusOK, `["beauty"]`, nil)
	defer srv.Close()

	assert.Equal(t, []string{"beauty"}, newTestService(t, srv.URL, cache).List(context.Background()))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, NoCategories, Join(nil))
	assert.Equal(t, NoCategories, Join([]string{}))
	assert.Equal(t, "beauty, groceries", Join([]string{"beauty", "groceries"}))
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.CatalogConfig{BaseURL: "https://dummyjson.com", Timeout: 0}, config.CacheConfig{CategoriesTTL: 3600})
	assert.Equal(t, "https://dummyjson.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)

	cfg = NewConfig(config.CatalogConfig{Timeout: 1500}, config.CacheConfig{})
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}

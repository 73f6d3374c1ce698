package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func writeArticles(w http.ResponseWriter, articles ...model.Article) {
	if articles == nil {
		articles = []model.Article{}
	}
	json.NewEncoder(w).Encode(Response{Status: "ok", TotalResults: len(articles), Articles: articles})
}

func TestTopHeadlinesSendsKeyAndParams(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("X-Api-Key"))
		assert.Equal(t, "/top-headlines", r.URL.Path)
		got = r.URL.Query()
		writeArticles(w, model.Article{Title: "a", Url: "https://a", Source: model.ArticleSource{Name: "BBC News"}})
	}))
	defer server.Close()

	c := NewClient(server.URL, testAPIKey, time.Second)
	resp, err := c.TopHeadlines(context.Background(), TopHeadlinesParams{
		Category: "technology",
		Query:    "go lang",
		Language: "en",
		PageSize: 20,
	})
	require.NoError(t, err)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "BBC News", resp.Articles[0].Source.Name)

	assert.Equal(t, "technology", got.Get("category"))
	assert.Equal(t, "go lang", got.Get("q"))
	assert.Equal(t, "en", got.Get("language"))
	assert.Equal(t, "20", got.Get("pageSize"))
	_, hasCountry := got["country"]
	assert.False(t, hasCountry)
}

func TestEverythingJoinsDomains(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		got = r.URL.Query()
		writeArticles(w)
	}))
	defer server.Close()

	c := NewClient(server.URL, testAPIKey, time.Second)
	resp, err := c.Everything(context.Background(), EverythingParams{Domains: []string{"a.com", "b.com"}, SortBy: "publishedAt"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Articles)
	assert.Equal(t, "a.com,b.com", got.Get("domains"))
	assert.Equal(t, "publishedAt", got.Get("sortBy"))
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("http://unused", "", time.Second)
	assert.False(t, c.Configured())
	_, err := c.TopHeadlines(context.Background(), TopHeadlinesParams{})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testAPIKey, time.Second)
	_, err := c.TopHeadlines(context.Background(), TopHeadlinesParams{Category: "general"})
	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	assert.Equal(t, "apiKeyInvalid", upstreamErr.Code)
}

func TestUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, testAPIKey, time.Second)
	_, err := c.TopHeadlines(context.Background(), TopHeadlinesParams{Category: "general"})
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeArticles(w, model.Article{Url: "https://cached"})
	}))
	defer server.Close()

	c := NewClient(server.URL, testAPIKey, time.Second)
	c.Cache = NewRedisCache(rdb)
	c.CacheTTL = time.Minute

	ctx := context.Background()
	params := TopHeadlinesParams{Category: "science"}
	for i := 0; i < 3; i++ {
		resp, err := c.TopHeadlines(ctx, params)
		require.NoError(t, err)
		require.Len(t, resp.Articles, 1)
		assert.Equal(t, "https://cached", resp.Articles[0].Url)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// Different params are a different key.
	_, err := c.TopHeadlines(ctx, TopHeadlinesParams{Category: "sports"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	mr.FastForward(2 * time.Minute)
	_, err = c.TopHeadlines(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestRedisCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cache := NewRedisCache(rdb)
	_, ok, err := cache.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/program-selection/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`[{"id":"a"}]`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_Rejects(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok, "short buffer")

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok, "header length beyond buffer")
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/programs/:id")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newCtx("/api/programs/1?x=1"))
	b := cacheKeyFrom(cfg, newCtx("/api/programs/1?x=2"))
	assert.True(t, strings.HasPrefix(a, "cache:resp:"))
	assert.NotEqual(t, a, b, "query is part of the key")

	for _, strategy := range []string{"route", "method_route", "method_route_query", "route_query"} {
		cfg.KeyStrategy = strategy
		assert.NotEqual(t,
			cacheKeyFrom(cfg, newCtx("/api/programs/1")),
			cacheKeyFrom(cfg, newCtx("/api/programs/2")),
			"%s: path parameters are part of the key", strategy)
	}

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, newCtx("/api/programs/1?x=1")), cacheKeyFrom(cfg, newCtx("/api/programs/1?x=2")))
}

func TestStoredHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	h.Set(echo.HeaderAccessControlAllowOrigin, "https://a.example")
	h.Set(echo.HeaderXRequestID, "req-1")
	h.Set(echo.HeaderVary, echo.HeaderOrigin)
	h.Set("X-Cache", "MISS")

	assert.Equal(t, http.Header{echo.HeaderContentType: {echo.MIMEApplicationJSON}}, storedHeaders(h))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// newCachedServer mirrors the production stack: request id and CORS run
// before the cache on every request.
func newCachedServer(t *testing.T, rdb *redis.Client, calls *int) *echo.Echo {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:                             []string{"*"},
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
	}))
	cache := NewRedisCache(config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}, rdb, log)
	e.GET("/api/programs/:id", func(c echo.Context) error {
		*calls++
		id := c.Param("id")
		if id == "missing" {
			return c.JSON(http.StatusNotFound, map[string]string{"detail": "Program not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"id": id})
	}, cache)
	return e
}

func get(e *echo.Echo, target, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if origin != "" {
		req.Header.Set(echo.HeaderOrigin, origin)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewRedisCache_KeysByRequestedPath(t *testing.T) {
	_, rdb := newTestRedis(t)
	var calls int
	e := newCachedServer(t, rdb, &calls)

	a := get(e, "/api/programs/a", "")
	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, "MISS", a.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"id":"a"}`, a.Body.String())

	b := get(e, "/api/programs/b", "")
	require.Equal(t, http.StatusOK, b.Code)
	assert.Equal(t, "MISS", b.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"id":"b"}`, b.Body.String())

	again := get(e, "/api/programs/a", "")
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"id":"a"}`, again.Body.String())
	assert.Equal(t, a.Header().Get(echo.HeaderContentType), again.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 2, calls)

	zero := get(e, "/api/programs/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, "MISS", zero.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"id":"00000000-0000-0000-0000-000000000000"}`, zero.Body.String())
}

func TestNewRedisCache_SkipsNon200(t *testing.T) {
	mr, rdb := newTestRedis(t)
	var calls int
	e := newCachedServer(t, rdb, &calls)

	for i := 0; i < 2; i++ {
		rec := get(e, "/api/programs/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestNewRedisCache_HitCarriesFreshPerRequestHeaders(t *testing.T) {
	_, rdb := newTestRedis(t)
	var calls int
	e := newCachedServer(t, rdb, &calls)

	first := get(e, "/api/programs/a", "https://a.example")
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))

	hit := get(e, "/api/programs/a", "https://b.example")
	require.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, []string{"https://b.example"}, hit.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Len(t, hit.Header().Values(echo.HeaderAccessControlAllowCredentials), 1)
	assert.Len(t, hit.Header().Values(echo.HeaderVary), 1)
	require.Len(t, hit.Header().Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), hit.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, []string{"HIT"}, hit.Header().Values("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestCachePurger_LeavesOtherKeys(t *testing.T) {
	mr, rdb := newTestRedis(t)
	var calls int
	e := newCachedServer(t, rdb, &calls)

	get(e, "/api/programs/a", "")
	get(e, "/api/programs/b", "")
	require.NoError(t, mr.Set("cache:lock:catalog-seed", "owner"))
	require.NoError(t, mr.Set("other:resp:x", "kept"))

	require.NoError(t, NewCachePurger(rdb, "cache").Purge(context.Background()))

	assert.ElementsMatch(t, []string{"cache:lock:catalog-seed", "other:resp:x"}, mr.Keys())
	assert.Equal(t, "MISS", get(e, "/api/programs/a", "").Header().Get("X-Cache"))
}

func TestCachePurger_ManyKeys(t *testing.T) {
	mr, rdb := newTestRedis(t)
	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("cache:resp:%03d", i), "x"))
	}

	require.NoError(t, NewCachePurger(rdb, "cache").Purge(context.Background()))
	assert.Empty(t, mr.Keys())
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.EqualValues(t, 6, cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestNewRedisCache_PassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, logrus.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/programs", nil), rec)

	err := mw(func(c echo.Context) error { return c.String(http.StatusOK, "fresh") })(c)
	require.NoError(t, err)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestNewCachePurger_NilClient(t *testing.T) {
	assert.Nil(t, NewCachePurger(nil, "cache"))
}

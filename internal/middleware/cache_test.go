package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"freezers":["F1"]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPayloadEmptyBody(t *testing.T) {
	payload, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload(nil)
	assert.False(t, ok)

	_, _, _, ok = decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// header length pointing past the buffer
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 255, 255, 'x'})
	assert.False(t, ok)
}

func TestCaptureWriterOverflow(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}

	_, err := cw.Write([]byte("12345"))
	require.NoError(t, err)
	assert.False(t, cw.overflowed())

	_, err = cw.Write([]byte("67890"))
	require.NoError(t, err)
	assert.True(t, cw.overflowed())
	// the buffer holds only a prefix, which is exactly why it must not be cached
	assert.Equal(t, "12345678", cw.buf.String())
}

func newCacheMiddleware(t *testing.T, maxBody int) echo.MiddlewareFunc {
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: maxBody,
	}, rdb)
}

func TestCacheServesRepeatReadsFromRedis(t *testing.T) {
	e := echo.New()
	calls := 0
	e.GET("/freezers", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, `{"freezers":["F1"]}`)
	}, newCacheMiddleware(t, 1024))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/freezers", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/freezers", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

// A body past the capture limit must be served in full every time, never
// replayed as a truncated 200 from the cache.
func TestCacheSkipsBodiesOverLimit(t *testing.T) {
	e := echo.New()
	big := strings.Repeat("x", 500)
	e.GET("/big", func(c echo.Context) error {
		return c.String(http.StatusOK, big)
	}, newCacheMiddleware(t, 64))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/big", nil))
	require.Equal(t, big, first.Body.String())

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/big", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, big, second.Body.String())
}

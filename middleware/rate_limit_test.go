package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Troppe richieste. Riprova più tardi.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	request := func(handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return rec, handler(c)
	}

	t.Run("Within limit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Second})
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		for i := 0; i < 2; i++ {
			rec, err := request(handler)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("Exceeded limit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		rec, err := request(handler)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		_, err = request(handler)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	})

	t.Run("Window expiry resets the counter", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: 30 * time.Millisecond})
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		rec, err := request(handler)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		time.Sleep(40 * time.Millisecond)

		rec, err = request(handler)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

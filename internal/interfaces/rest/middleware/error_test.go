package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling(t *testing.T) {
	var handled error
	mw := ErrorHandling(&ErrorHandlingOption{
		Handler: func(c echo.Context, err error) {
			handled = err
			c.NoContent(http.StatusInternalServerError)
		},
	})

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		code    int
		handled string
	}{
		{"error", func(echo.Context) error { return errors.New("boom") }, http.StatusInternalServerError, "boom"},
		{"panic error", func(echo.Context) error { panic(errors.New("kaboom")) }, http.StatusInternalServerError, "kaboom"},
		{"panic value", func(echo.Context) error { panic("oops") }, http.StatusInternalServerError, "oops"},
		{"http error", func(echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "tea") }, http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handled = nil
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			assert.NoError(t, mw(tt.handler)(c))
			assert.Equal(t, tt.code, rec.Code)
			if tt.handled == "" {
				assert.Nil(t, handled)
			} else {
				require.Error(t, handled)
				assert.Equal(t, tt.handled, handled.Error())
			}
		})
	}
}

func TestAbortRequest(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	mw := AbortRequest(&AbortRequestOption{Timeout: time.Minute})

	require.NoError(t, mw(func(c echo.Context) error {
		deadline, ok := c.Request().Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		return nil
	})(c))

	c = echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, AbortRequest()(func(c echo.Context) error {
		_, ok := c.Request().Context().Deadline()
		assert.False(t, ok)
		return nil
	})(c))
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, "error", levelOf(http.StatusBadGateway).String())
	assert.Equal(t, "debug", levelOf(http.StatusBadRequest).String())
	assert.Equal(t, "debug", levelOf(http.StatusOK).String())
}

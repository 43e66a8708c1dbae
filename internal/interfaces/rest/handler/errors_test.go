package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestReplyError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrDuplicatedUser, http.StatusConflict},
		{domain.ErrNoSuchUser, http.StatusUnauthorized},
		{domain.ErrPasswordMismatch, http.StatusUnauthorized},
		{domain.ErrUserTooManyRetry, http.StatusForbidden},
		{fmt.Errorf("reset: %w", domain.ErrInvalidResetToken), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.Response().Header().Set(echo.HeaderXRequestID, "trace-1")

			require.NoError(t, replyError(c, tt.err))
			assert.Equal(t, tt.code, rec.Code)
			body := new(RESTStandardError)
			decodeBody(t, rec, body)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}

	boom := errors.New("boom")
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, boom, replyError(c, boom))
}

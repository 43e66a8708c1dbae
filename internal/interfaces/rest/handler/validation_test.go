package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	infra "github.com/pot-code/go-storefront/internal/infrastructure"
	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"github.com/pot-code/go-storefront/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newValidationHandler() *ValidationHandler {
	return NewValidationHandler(validation.NewRunner(validation.DefaultRegistry()))
}

func TestLive(t *testing.T) {
	vh := newValidationHandler()
	ctx := context.Background()

	resp := vh.live(ctx, []byte(`{"form":"updateProfile","payload":{"name":" Ayşe "}}`))
	assert.Equal(t, "updateProfile", resp.Form)
	assert.Empty(t, resp.Error)
	assert.True(t, resp.Success)

	resp = vh.live(ctx, []byte(`{"form":"updateProfile","payload":{"name":"X"}}`))
	require.NotNil(t, resp.Response)
	assert.False(t, resp.Success)
	assert.Equal(t, []validation.Violation{{Param: "name", Msg: validation.MsgNameLength}}, resp.Errors)

	resp = vh.live(ctx, []byte(`{"form":"checkout","payload":{}}`))
	assert.Contains(t, resp.Error, "unknown rule set")

	resp = vh.live(ctx, []byte(`not json`))
	assert.NotEmpty(t, resp.Error)

	resp = vh.live(ctx, []byte(`{"form":"login","payload":{"email":["a"]}}`))
	assert.Contains(t, resp.Error, "scalar")
}

func TestLive_RuleErrorLogged(t *testing.T) {
	broken := validation.NewRuleSet("broken", validation.On("a", nil,
		validation.Must(func(string, bool, validation.Payload) bool { panic(errors.New("boom")) }, "a"),
	))
	registry, err := validation.NewRegistry(broken)
	require.NoError(t, err)
	vh := NewValidationHandler(validation.NewRunner(registry))

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logging.SetLoggerInContext(context.Background(), zap.New(core))

	resp := vh.live(ctx, []byte(`{"form":"broken","payload":{"a":"1"}}`))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), resp.Error)
	assert.Nil(t, resp.Response)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken", entries[0].ContextMap()["validation.form"])
	assert.Contains(t, entries[0].ContextMap()["error"], "boom")

	resp = vh.live(ctx, []byte(`{"form":"checkout","payload":{}}`))
	assert.Contains(t, resp.Error, "unknown rule set")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestHandleLiveValidation(t *testing.T) {
	vh := newValidationHandler()
	e := echo.New()
	e.GET("/ws", infra.NewWebsocket().WithHeartbeat(vh.HandleLiveValidation))
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"form":    "forgotPassword",
		"payload": map[string]interface{}{"email": "bad"},
	}))
	resp := new(LiveResponse)
	require.NoError(t, conn.ReadJSON(resp))
	assert.Equal(t, "forgotPassword", resp.Form)
	require.NotNil(t, resp.Response)
	assert.Equal(t, []validation.Violation{{Param: "email", Msg: validation.MsgEmailInvalid}}, resp.Errors)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	resp = new(LiveResponse)
	require.NoError(t, conn.ReadJSON(resp))
	assert.NotEmpty(t, resp.Error)
}

func TestHandlePasswordStrength(t *testing.T) {
	vh := newValidationHandler()
	tests := []struct {
		password string
		want     PasswordStrength
	}{
		{"abc", PasswordStrength{false, false}},
		{"Secret1", PasswordStrength{true, false}},
		{"Secret1!", PasswordStrength{true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"`+tt.password+`"}`))
			rec := httptest.NewRecorder()
			require.NoError(t, vh.HandlePasswordStrength(echo.New().NewContext(req, rec)))
			got := new(PasswordStrength)
			decodeBody(t, rec, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"github.com/pot-code/go-storefront/internal/interfaces/rest/middleware"
	"github.com/pot-code/go-storefront/internal/validation"
	"go.uber.org/zap"
)

// ValidationHandler expose the rule sets for client side feedback
type ValidationHandler struct {
	runner *validation.Runner
}

// NewValidationHandler create a validation controller instance
func NewValidationHandler(Runner *validation.Runner) *ValidationHandler {
	return &ValidationHandler{Runner}
}

// HandleDryRun validate the body against :form without side effects, the
// report is returned with 200 whether or not it passed
func (vh *ValidationHandler) HandleDryRun(c echo.Context) error {
	form := c.Param("form")
	if _, err := vh.runner.Registry().Lookup(form); err != nil {
		return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
	}
	payload, err := middleware.DecodePayload(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, NewRESTStandardError(http.StatusUnprocessableEntity, err.Error()))
	}

	result, err := vh.runner.Validate(form, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, validation.Report(result))
}

// PasswordStrength password policy outcome
type PasswordStrength struct {
	Strong bool `json:"strong"`
	Strict bool `json:"strict"`
}

// HandlePasswordStrength evaluate {"password"} against both password policies
func (vh *ValidationHandler) HandlePasswordStrength(c echo.Context) error {
	payload, err := middleware.DecodePayload(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, NewRESTStandardError(http.StatusUnprocessableEntity, err.Error()))
	}
	password := payload["password"]
	return c.JSON(http.StatusOK, &PasswordStrength{
		Strong: validation.IsStrongPassword(password),
		Strict: validation.IsStrictPassword(password),
	})
}

// LiveRequest websocket validation request
type LiveRequest struct {
	Form    string                 `json:"form"`
	Payload map[string]interface{} `json:"payload"`
}

// LiveResponse websocket validation reply, Error is set when the request
// itself could not be processed
type LiveResponse struct {
	Form string `json:"form"`
	*validation.Response
	Error string `json:"error,omitempty"`
}

// HandleLiveValidation answer one LiveRequest frame. Malformed requests get
// an error frame and keep the connection open.
func (vh *ValidationHandler) HandleLiveValidation(ctx context.Context, conn *websocket.Conn) error {
	_, message, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	return conn.WriteJSON(vh.live(ctx, message))
}

// live validate one frame, rule failures are logged with the request logger
func (vh *ValidationHandler) live(ctx context.Context, message []byte) *LiveResponse {
	req := new(LiveRequest)
	if err := json.Unmarshal(message, req); err != nil {
		return &LiveResponse{Error: err.Error()}
	}
	payload, err := validation.PayloadFromMap(req.Payload)
	if err != nil {
		return &LiveResponse{Form: req.Form, Error: err.Error()}
	}
	result, err := vh.runner.Validate(req.Form, payload)
	if errors.Is(err, validation.ErrUnknownRuleSet) {
		return &LiveResponse{Form: req.Form, Error: err.Error()}
	} else if err != nil {
		logging.ExtractLoggerFromContext(ctx).Error(err.Error(),
			zap.String("validation.form", req.Form),
			zap.Error(err),
		)
		return &LiveResponse{Form: req.Form, Error: http.StatusText(http.StatusInternalServerError)}
	}
	return &LiveResponse{Form: req.Form, Response: validation.Report(result)}
}

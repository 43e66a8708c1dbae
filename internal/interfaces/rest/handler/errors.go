package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/validate"
)

// RESTStandardError response error
type RESTStandardError struct {
	Type    string `json:"type,omitempty"`
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewRESTStandardError create an error titled after the status code
func NewRESTStandardError(code int, detail string) *RESTStandardError {
	return &RESTStandardError{
		Code:   code,
		Title:  http.StatusText(code),
		Detail: detail,
	}
}

func (re RESTStandardError) Error() string {
	return re.Detail
}

// SetTraceID return a copy carrying traceID
func (re RESTStandardError) SetTraceID(traceID string) RESTStandardError {
	re.TraceID = traceID
	return re
}

// RESTValidationError query parameter validation error
type RESTValidationError struct {
	RESTStandardError
	InvalidParams []*validate.FieldError `json:"invalid_params"`
}

// NewRESTValidationError create a validation error
func NewRESTValidationError(code int, detail string, internal []*validate.FieldError) *RESTValidationError {
	return &RESTValidationError{
		RESTStandardError: RESTStandardError{
			Code:   code,
			Title:  http.StatusText(code),
			Detail: detail,
		},
		InvalidParams: internal,
	}
}

func (rve RESTValidationError) Error() string {
	return rve.Detail
}

// domainStatus maps account errors to status codes, 0 for unknown errors
func domainStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicatedUser):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoSuchUser), errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserTooManyRetry):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest
	}
	return 0
}

// replyError answer known domain errors, anything else is returned to the
// error handling middleware
func replyError(c echo.Context, err error) error {
	code := domainStatus(err)
	if code == 0 {
		return err
	}
	traceID := c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(code, NewRESTStandardError(code, err.Error()).SetTraceID(traceID))
}

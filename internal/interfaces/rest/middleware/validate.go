package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/validation"
)

const validationResultKey = "validation.result"

// ValidateBodyOption options for ValidateBody
type ValidateBodyOption struct {
	// Prepare runs after decoding and before validation, eg. to inject
	// session values the client must not supply
	Prepare func(c echo.Context, payload validation.Payload) error
}

// ValidateBody decode the JSON object body into a validation.Payload and
// validate it with rule set set. Invalid payloads are answered with 400 and
// the report, valid ones are stored for GetValidationResult.
func ValidateBody(runner *validation.Runner, set string, options ...*ValidateBodyOption) echo.MiddlewareFunc {
	option := new(ValidateBodyOption)
	if len(options) > 0 && options[0] != nil {
		option = options[0]
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload, err := DecodePayload(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
			}
			if option.Prepare != nil {
				if err := option.Prepare(c, payload); err != nil {
					return err
				}
			}

			result, err := runner.Validate(set, payload)
			if err != nil {
				return err
			}
			if !result.Valid {
				return c.JSON(http.StatusBadRequest, validation.Report(result))
			}
			c.Set(validationResultKey, result)
			return next(c)
		}
	}
}

// GetValidationResult result stored by ValidateBody, nil if it did not run
func GetValidationResult(c echo.Context) *validation.Result {
	if v, ok := c.Get(validationResultKey).(*validation.Result); ok {
		return v
	}
	return nil
}

// DecodePayload read one JSON object from r, an empty body is an empty payload
func DecodePayload(r io.Reader) (validation.Payload, error) {
	raw := make(map[string]interface{})
	if r != nil {
		if err := json.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	return validation.PayloadFromMap(raw)
}

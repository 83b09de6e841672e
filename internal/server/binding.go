// file: internal/server/binding.go
// version: 1.0.0
// guid: 0c1d4e7f-3a9b-4c2d-5e6f-8a9b0c1d2e3f

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jdfalk/notekeeper/internal/api"
	"github.com/jdfalk/notekeeper/internal/metrics"
)

// BindJSON parses and validates a request body against the declared
// request type. A body that cannot be parsed at all fails as
// INVALID_REQUEST; a body that parses but violates the schema fails as
// VALIDATION_ERROR whose message lists every field problem, "; "-joined,
// so the caller sees them all in one round trip.
func BindJSON[T any](c *gin.Context) (T, *api.Error) {
	var req T
	err := c.ShouldBindJSON(&req)
	if err == nil {
		return req, nil
	}

	var zero T

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return zero, api.NewPayloadTooLarge(maxBytes.Limit)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		metrics.IncValidationFailure()
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		msg := fmt.Sprintf("%s: must be of type %s", field, typeErr.Type.Kind())
		return zero, api.NewValidationError(msg, []string{msg})
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		metrics.IncValidationFailure()
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s: %s", fieldPath(fe), ruleMessage(fe)))
		}
		return zero, api.NewValidationError(strings.Join(problems, "; "), problems)
	}

	// Syntax errors, truncated bodies, empty bodies: not parseable.
	return zero, api.NewInvalidRequest("malformed JSON body: " + err.Error())
}

// fieldPath lowercases the struct field name to match its JSON form.
func fieldPath(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "body"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// ruleMessage renders a human-readable violation per validation tag.
func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return "must be a hex color"
	default:
		return "is invalid"
	}
}

// QueryValues coalesces repeated query keys into ordered value slices;
// single-occurrence keys stay scalar strings.
func QueryValues(c *gin.Context) map[string]any {
	out := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			out[key] = values[0]
		} else {
			out[key] = append([]string(nil), values...)
		}
	}
	return out
}

// parsePageParams reads page/limit query parameters with sane bounds.
func parsePageParams(c *gin.Context) (page, limit int) {
	page = queryInt(c, "page", 1)
	limit = queryInt(c, "limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n := 0
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return def
	}
	return n
}

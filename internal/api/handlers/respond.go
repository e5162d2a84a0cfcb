package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/wonny/astro/internal/contracts"
)

var validate = validator.New()

// FieldError one failed request field
type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondErr maps domain errors to HTTP status codes
func respondErr(w http.ResponseWriter, err error) {
	respondError(w, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, contracts.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrNoChartData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contracts.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest binds the JSON body, applies `default` tags and validates.
// An empty body is allowed; defaults and validation still apply.
func decodeRequest(r *http.Request, req interface{}) []FieldError {
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return []FieldError{{Code: "ERR_BIND", Message: err.Error()}}
		}
	}

	if err := defaults.Set(req); err != nil {
		return []FieldError{{Code: "ERR_DEFAULTS", Message: err.Error()}}
	}

	if err := validate.StructCtx(r.Context(), req); err != nil {
		return fieldErrors(err)
	}
	return nil
}

func respondValidation(w http.ResponseWriter, errs []FieldError) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "invalid request",
		"fields": errs,
	})
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// parseDate accepts 2006-01-02 (UTC noon) or RFC3339; empty = fallback
func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is neither YYYY-MM-DD nor RFC3339", contracts.ErrInvalidInput, s)
	}
	return t, nil
}

func parseBodies(names []string) ([]contracts.Body, error) {
	bodies := make([]contracts.Body, 0, len(names))
	for _, n := range names {
		b, err := contracts.ParseBody(n)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func parsePoints(names []string) ([]contracts.Point, error) {
	points := make([]contracts.Point, 0, len(names))
	for _, n := range names {
		p, err := contracts.ParsePoint(n)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

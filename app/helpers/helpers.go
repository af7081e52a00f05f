package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyCartID contextKey = "cartID"
)

const maxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("request body is empty")

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", field)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", field)
		case "min", "gte":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", field, err.Param())
		case "max", "lte":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", field, err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", field, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s check.", field, err.Tag())
		}
	}
	return errorMessages
}

// FirstField returns the alphabetically first offending field, so error
// details are deterministic.
func FirstField(messages map[string]string) (string, string) {
	if len(messages) == 0 {
		return "", ""
	}
	fields := make([]string, 0, len(messages))
	for f := range messages {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields[0], messages[fields[0]]
}

// DecodeJSON reads a size-limited JSON body into dst and rejects unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func ParseUint(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid id: %w", raw, err)
	}
	return uint(n), nil
}

func WithCartID(ctx context.Context, cartID string) context.Context {
	return context.WithValue(ctx, ContextKeyCartID, cartID)
}

func CartIDFromContext(ctx context.Context) (string, bool) {
	cartID, ok := ctx.Value(ContextKeyCartID).(string)
	return cartID, ok && cartID != ""
}

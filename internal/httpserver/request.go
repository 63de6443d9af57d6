package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body required")

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// requestValidator wraps go-playground/validator using JSON field names in errors.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// Check validates payload and returns a client-safe message for the first failing rule.
// messages maps a validation tag to the text used for it.
func (v *requestValidator) Check(payload any, messages map[string]string) (string, bool) {
	err := v.validate.Struct(payload)
	if err == nil {
		return "", true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request", false
	}
	fe := fieldErrs[0]
	if msg, ok := messages[fe.Tag()]; ok {
		return msg, false
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field()), false
	case "email":
		return "Invalid email format", false
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()), false
	default:
		return fmt.Sprintf("%s is invalid", fe.Field()), false
	}
}

package httpapi

import (
	"bytes"
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

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a body problem detected before the request reaches a service.
type requestError struct {
	message string
	details map[string]any
}

func (e *requestError) Error() string { return e.message }

// readBody reads the raw request body so it can be hashed before decoding.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &requestError{message: "request body too large"}
		}
		return nil, &requestError{message: "unreadable request body"}
	}
	return b, nil
}

// decodeStrict decodes exactly one JSON value, rejecting unknown fields, then runs the
// struct's validate tags.
func decodeStrict(raw []byte, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &requestError{message: "request body is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{message: "malformed JSON body", details: map[string]any{"body": err.Error()}}
	}
	if dec.More() {
		return &requestError{message: "request body must contain a single JSON object"}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &requestError{message: "invalid request body"}
		}
		details := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			details[fieldPath(fe)] = describe(fe)
		}
		return &requestError{message: "request validation failed", details: details}
	}
	return nil
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "http_url", "url":
		return "must be an absolute http(s) URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func writeRequestError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var re *requestError
	if errors.As(err, &re) {
		logHTTPOperationError(r.Context(), operation, http.StatusUnprocessableEntity, "VALIDATION_ERROR", re.message, nil)
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", re.message, re.details)
		return
	}
	writeInternal(w, r, operation, err)
}

// readJSON combines readBody and decodeStrict for handlers that do not need the raw bytes.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw, err := readBody(w, r)
	if err == nil {
		err = decodeStrict(raw, dst)
	}
	if err != nil {
		writeRequestError(w, r, r.Method+" "+routePattern(r), err)
		return false
	}
	return true
}

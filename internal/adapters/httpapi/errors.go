package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/unique-fitness/gym-admin-api/internal/app/announcements"
	"github.com/unique-fitness/gym-admin-api/internal/app/dietplans"
	"github.com/unique-fitness/gym-admin-api/internal/app/members"
	"github.com/unique-fitness/gym-admin-api/internal/app/plans"
	"github.com/unique-fitness/gym-admin-api/internal/app/workouts"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func encodeData(data any) ([]byte, error) {
	b, err := json.Marshal(successEnvelope{Success: true, Data: data})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	b, err := encodeData(data)
	if err != nil {
		writeInternal(w, r, "encode response", err)
		return
	}
	writeJSON(w, status, b)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	env := errorEnvelope{Error: errorBody{Code: code, Message: message}}
	if details != nil {
		env.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		env.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	b, err := json.Marshal(env)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, append(b, '\n'))
}

func writeInternal(w http.ResponseWriter, r *http.Request, operation string, err error) {
	logHTTPOperationError(r.Context(), operation, http.StatusInternalServerError, "INTERNAL", "internal error", err)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

// appError is the shape shared by every service's *Error.
type appError struct {
	status  int
	code    string
	message string
	details map[string]any
}

func asAppError(err error) (appError, bool) {
	if me := (*members.Error)(nil); errors.As(err, &me) {
		return appError{me.Status, me.Code, me.Message, me.Details}, true
	}
	if pe := (*plans.Error)(nil); errors.As(err, &pe) {
		return appError{pe.Status, pe.Code, pe.Message, pe.Details}, true
	}
	if ae := (*announcements.Error)(nil); errors.As(err, &ae) {
		return appError{ae.Status, ae.Code, ae.Message, ae.Details}, true
	}
	if de := (*dietplans.Error)(nil); errors.As(err, &de) {
		return appError{de.Status, de.Code, de.Message, de.Details}, true
	}
	if we := (*workouts.Error)(nil); errors.As(err, &we) {
		return appError{we.Status, we.Code, we.Message, we.Details}, true
	}
	return appError{}, false
}

// writeServiceError maps application errors onto the error envelope. Anything that is not
// an application error is logged and reported as a 500 without leaking its text.
func writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	ae, ok := asAppError(err)
	if !ok || ae.status == 0 {
		writeInternal(w, r, operation, err)
		return
	}
	logHTTPOperationError(r.Context(), operation, ae.status, ae.code, ae.message, nil)
	writeError(w, r, ae.status, ae.code, ae.message, ae.details)
}

func httpLogger() *slog.Logger {
	return slog.Default().With(
		"module", "http",
		"layer", "adapter",
	)
}

func logHTTPOperationError(ctx context.Context, operation string, statusCode int, code, message string, err error) {
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"error_code", code,
		"message", message,
		"request_id", middleware.GetReqID(ctx),
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	if statusCode >= 500 {
		httpLogger().ErrorContext(ctx, "http operation failed", fields...)
		return
	}
	httpLogger().WarnContext(ctx, "http operation failed", fields...)
}

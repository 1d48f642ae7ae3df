// Package middleware provides framework-free helpers for validating inbound
// HTTP JSON payloads at the boundary and shaping validation issues into
// structured 4xx responses. Framework adapters belong in separate modules; the
// helpers here only depend on net/http.
package middleware

import (
	"context"
	"net/http"

	gojson "github.com/goccy/go-json"

	zodmini "github.com/BrunoFelixDeSousa/zodmini"
)

// ctxKeyValue is the typed context key for storing the validated value.
type ctxKeyValue struct{}

// ContextWithValue attaches a validated value to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the validated value from context.
func ValueFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValue{})
	return v, v != nil
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues zodmini.Issues) map[string]any {
	return map[string]any{"issues": issues}
}

// DecodeAndValidate reads the request body as JSON and validates it against
// the schema, returning the validated value or the Issues error.
func DecodeAndValidate(s *zodmini.Schema, r *http.Request) (any, error) {
	return zodmini.ParseFrom(r.Context(), s, zodmini.JSONReader(r.Body))
}

// DecodeAndValidateAsync is DecodeAndValidate over the asynchronous entry
// point, for schemas carrying asynchronous refinements.
func DecodeAndValidateAsync(s *zodmini.Schema, r *http.Request) (any, error) {
	return zodmini.ParseFromAsync(r.Context(), s, zodmini.JSONReader(r.Body))
}

// WriteIssues writes a 400 response carrying the issue list verbatim.
func WriteIssues(w http.ResponseWriter, issues zodmini.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = gojson.NewEncoder(w).Encode(ErrorPayload(issues))
}

// Validate wraps next so it only runs when the request body validates against
// the schema; the validated value is available via ValueFromContext. Invalid
// payloads receive a 400 with the full issue list.
func Validate(s *zodmini.Schema, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := DecodeAndValidate(s, r)
		if err != nil {
			iss, ok := zodmini.AsIssues(err)
			if !ok {
				iss = zodmini.Issues{{Code: zodmini.CodeParseError, Message: err.Error(), Cause: err}}
			}
			WriteIssues(w, iss)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

// ValidateAsync is Validate over the asynchronous entry point.
func ValidateAsync(s *zodmini.Schema, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := DecodeAndValidateAsync(s, r)
		if err != nil {
			iss, ok := zodmini.AsIssues(err)
			if !ok {
				iss = zodmini.Issues{{Code: zodmini.CodeParseError, Message: err.Error(), Cause: err}}
			}
			WriteIssues(w, iss)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

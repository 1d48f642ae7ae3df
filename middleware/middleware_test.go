package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	zodmini "github.com/BrunoFelixDeSousa/zodmini"
	"github.com/BrunoFelixDeSousa/zodmini/middleware"
)

func orderSchema() *zodmini.Schema {
	return zodmini.Object(
		zodmini.Field("id", zodmini.String().Min(1)),
		zodmini.Field("qty", zodmini.Number().Int().Positive()),
	)
}

func TestValidate_PassesValidatedValueToHandler(t *testing.T) {
	var got any
	h := middleware.Validate(orderSchema(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.ValueFromContext(r.Context())
		require.True(t, ok)
		got = v
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"id":"o1","qty":2,"debug":true}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	m := got.(map[string]any)
	require.Equal(t, "o1", m["id"])
	// Unknown keys are stripped before the handler sees the value.
	require.NotContains(t, m, "debug")
}

func TestValidate_RejectsInvalidPayloadWithIssueList(t *testing.T) {
	h := middleware.Validate(orderSchema(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run for invalid payloads")
	}))

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"id":"","qty":-1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Issues []struct {
			Path []any  `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, gojson.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Issues, 2)
	require.Equal(t, zodmini.CodeTooSmall, payload.Issues[0].Code)
	require.Equal(t, []any{"id"}, payload.Issues[0].Path)
	require.Equal(t, []any{"qty"}, payload.Issues[1].Path)
}

func TestValidate_MalformedBody(t *testing.T) {
	h := middleware.Validate(orderSchema(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"id":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), zodmini.CodeParseError)
}

func TestValidateAsync_RunsAsyncRefinements(t *testing.T) {
	s := zodmini.Object(
		zodmini.Field("username", zodmini.String().RefineAsync(
			func(ctx context.Context, v any) (bool, error) {
				return v.(string) != "admin", nil
			},
			"username is taken",
		)),
	)

	called := false
	h := middleware.ValidateAsync(s, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"admin"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "username is taken")
	require.False(t, called)

	req = httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"bob"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, called)
}

func TestValueFromContext_MissingValue(t *testing.T) {
	_, ok := middleware.ValueFromContext(context.Background())
	require.False(t, ok)
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matchdayhq/fixture-engine/internal/domain/team"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

type stubVerifier struct {
	principal team.Principal
	err       error

	gotToken string
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (team.Principal, error) {
	v.gotToken = token
	return v.principal, v.err
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		verifier := &stubVerifier{principal: team.Principal{TeamID: "team-home", UserID: "u-1"}}
		var seen team.Principal
		handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = principalFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		req.Header.Set("Authorization", "Bearer token-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if verifier.gotToken != "token-123" {
			t.Fatalf("expected raw token forwarded, got %q", verifier.gotToken)
		}
		if seen.TeamID != "team-home" {
			t.Fatalf("expected principal in context, got %+v", seen)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		handler := RequireAuth(&stubVerifier{}, panicHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"token-123", "Basic token-123", "Bearer "} {
			handler := RequireAuth(&stubVerifier{}, panicHandler(t))

			req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
			}
		}
	})

	t.Run("verifier rejection propagates", func(t *testing.T) {
		verifier := &stubVerifier{err: fmt.Errorf("%w: token expired", usecase.ErrUnauthorized)}
		handler := RequireAuth(verifier, panicHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireAdminToken(t *testing.T) {
	t.Run("matching token passes", func(t *testing.T) {
		handler := RequireAdminToken("secret", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", nil)
		req.Header.Set("X-Admin-Token", "secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("wrong or missing token rejected", func(t *testing.T) {
		for _, token := range []string{"", "wrong"} {
			handler := RequireAdminToken("secret", panicHandler(t))

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", nil)
			if token != "" {
				req.Header.Set("X-Admin-Token", token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
			}
		}
	})

	t.Run("unconfigured token disables the routes", func(t *testing.T) {
		handler := RequireAdminToken("", panicHandler(t))

		req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", nil)
		req.Header.Set("X-Admin-Token", "anything")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard origin", func(t *testing.T) {
		handler := CORS([]string{"*"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("expected wildcard allow origin, got %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		handler := CORS([]string{"https://app.example.com"}, panicHandler(t))

		req := httptest.NewRequest(http.MethodOptions, "/v1/fixtures/fx-1", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Fatalf("expected allow origin echoed, got %q", got)
		}
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		handler := CORS([]string{"https://app.example.com"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected no allow origin, got %q", got)
		}
	})

	t.Run("non-browser request passes through untouched", func(t *testing.T) {
		handler := CORS([]string{"https://app.example.com"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/fx-1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

// panicHandler fails the test if the middleware lets the request through.
func panicHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("request must not reach the handler")
	})
}

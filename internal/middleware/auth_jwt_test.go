package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adforge/internal/domain"
)

const testSecret = "test-secret"

func authedRequest(t *testing.T, claims TokenClaims) *http.Request {
	t.Helper()
	token, err := SignJWT(testSecret, claims)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthJWTRoundTrip(t *testing.T) {
	var got domain.Account
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AccountFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, TokenClaims{Sub: "user-1", Plan: "pro", Locale: "id"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got.ID != "user-1" || got.Plan != domain.AccountPlanPro || got.Locale != "id" {
		t.Fatalf("account = %+v", got)
	}
}

func TestAuthJWTDefaultsToFreePlan(t *testing.T) {
	var got domain.Account
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AccountFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, TokenClaims{Sub: "user-1"}))

	if got.Plan != domain.AccountPlanFree {
		t.Fatalf("plan = %q, want free default", got.Plan)
	}
	if !got.IsFree() {
		t.Fatal("IsFree() = false for defaulted plan")
	}
}

func TestAuthJWTRejections(t *testing.T) {
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]func(*http.Request){
		"missing header": func(r *http.Request) {},
		"wrong scheme":   func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"garbage token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") },
	}
	for name, mutate := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthJWTRejectsTamperedSignature(t *testing.T) {
	token, err := SignJWT("other-secret", TokenClaims{Sub: "user-1"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestVerifyJWTExpiry(t *testing.T) {
	token, err := SignJWT(testSecret, TokenClaims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(testSecret, token); err == nil {
		t.Fatal("expired token accepted")
	}
}

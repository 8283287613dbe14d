package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
)

type sessionStoreStub struct {
	getFn func(ctx context.Context, token string) (string, error)
}

func (s sessionStoreStub) Get(ctx context.Context, token string) (string, error) {
	if s.getFn != nil {
		return s.getFn(ctx, token)
	}
	return "", domain.ErrRecordNotFound
}

func singleSession(token, email string) sessionStoreStub {
	return sessionStoreStub{
		getFn: func(_ context.Context, got string) (string, error) {
			if got == token {
				return email, nil
			}
			return "", domain.ErrRecordNotFound
		},
	}
}

func TestSessionAuthMissingToken(t *testing.T) {
	handler := SessionAuth(singleSession("tok-1", "jamal@example.com"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestSessionAuthInvalidToken(t *testing.T) {
	handler := SessionAuth(singleSession("tok-1", "jamal@example.com"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an unknown token")
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	request.Header.Set("Authorization", "Bearer tok-2")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestSessionAuthAttachesIdentity(t *testing.T) {
	var gotEmail string
	handler := SessionAuth(singleSession("tok-1", "jamal@example.com"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected an identity in the request context")
		}
		gotEmail = email
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	request.Header.Set("Authorization", "Bearer tok-1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if gotEmail != "jamal@example.com" {
		t.Fatalf("expected identity jamal@example.com, got %q", gotEmail)
	}
}

func TestRequireAdminForbidsNonAdmin(t *testing.T) {
	roleOf := func(_ context.Context, email string) (string, error) {
		return "user", nil
	}
	handler := RequireAdmin(singleSession("tok-1", "jamal@example.com"), roleOf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a non-admin")
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/admin/all-users", nil)
	request.Header.Set("Authorization", "Bearer tok-1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	roleOf := func(_ context.Context, email string) (string, error) {
		if email != "admin@example.com" {
			return "", errors.New("unexpected email")
		}
		return "admin", nil
	}
	ran := false
	handler := RequireAdmin(singleSession("tok-9", "admin@example.com"), roleOf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/admin/all-users", nil)
	request.Header.Set("Authorization", "Bearer tok-9")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if !ran || recorder.Code != http.StatusOK {
		t.Fatalf("expected the admin handler to run with 200, got %d", recorder.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer tok-1", "tok-1"},
		{"bearer tok-1", "tok-1"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tc := range cases {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			request.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(request); got != tc.want {
			t.Fatalf("header %q: expected token %q, got %q", tc.header, tc.want, got)
		}
	}
}

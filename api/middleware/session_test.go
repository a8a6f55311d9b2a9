package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kermes/kermes-panel/internal/session"
)

func TestSessionMintsCookieOnFirstVisit(t *testing.T) {
	var seen string
	handler := Session(CookieOptions{Name: "panel", TTL: time.Hour}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.IDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "panel" || !cookies[0].HttpOnly {
		t.Fatalf("expected one http-only session cookie, got %+v", cookies)
	}
	if seen == "" || seen != cookies[0].Value {
		t.Fatalf("context id %q does not match cookie %q", seen, cookies[0].Value)
	}
}

func TestSessionReusesExistingCookie(t *testing.T) {
	var seen string
	handler := Session(CookieOptions{Name: "panel"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.IDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "panel", Value: "existing"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "existing" {
		t.Fatalf("expected existing id, got %q", seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be re-issued")
	}
}

type stubLogin struct {
	ok  bool
	err error
}

func (s stubLogin) LoggedIn(context.Context) (bool, error) { return s.ok, s.err }

func TestRequireLogin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name string
		stub stubLogin
		want int
	}{
		{name: "logged in", stub: stubLogin{ok: true}, want: http.StatusOK},
		{name: "logged out", stub: stubLogin{}, want: http.StatusUnauthorized},
		{name: "store failure", stub: stubLogin{err: errors.New("redis down")}, want: http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireLogin(tc.stub, nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/urunler", nil))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

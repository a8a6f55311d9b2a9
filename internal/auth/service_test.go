package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/session"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

func buildTestService(t *testing.T, handler http.HandlerFunc) (Service, *session.Manager, *int) {
	t.Helper()

	hookCalls := 0
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	manager, err := session.NewManager(session.NewMemoryStore(), time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	client, err := apiclient.New(srv.URL+"/api",
		apiclient.WithHTTPClient(srv.Client()),
		apiclient.WithTokenSource(manager),
		apiclient.WithUnauthorizedHook(func(context.Context) { hookCalls++ }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	svc, err := NewService(ServiceParams{API: client, Sessions: manager})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, manager, &hookCalls
}

func TestServiceLoginStoresToken(t *testing.T) {
	var body map[string]string
	svc, manager, _ := buildTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not send a bearer token, got %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"token":"abc123","user":{"id":1,"name":"Yönetici"}}`))
	})

	ctx := session.WithID(context.Background(), "s1")
	resp, err := svc.Login(ctx, LoginRequest{Email: " admin@kermes.test ", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if body["email"] != "admin@kermes.test" || body["password"] != "secret" {
		t.Fatalf("unexpected login body %v", body)
	}
	if token, _ := manager.Token(ctx); token != "abc123" {
		t.Fatalf("expected token to be stored, got %q", token)
	}
	if string(resp.User) != `{"id":1,"name":"Yönetici"}` {
		t.Fatalf("unexpected user %s", resp.User)
	}
}

func TestServiceLoginWithoutTokenFails(t *testing.T) {
	svc, manager, _ := buildTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":1}}`))
	})

	ctx := session.WithID(context.Background(), "s1")
	_, err := svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apiclient.MessageOf(err); got != UnexpectedErrorMessage {
		t.Fatalf("unexpected message %q", got)
	}
	if ok, _ := manager.LoggedIn(ctx); ok {
		t.Fatal("session must stay logged out")
	}
}

func TestServiceLoginRejectedUsesServerMessage(t *testing.T) {
	svc, _, hookCalls := buildTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"E-posta veya şifre hatalı"}`))
	})

	_, err := svc.Login(session.WithID(context.Background(), "s1"), LoginRequest{Email: "a@b.co", Password: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got := apiclient.MessageOf(err); got != "E-posta veya şifre hatalı" {
		t.Fatalf("unexpected message %q", got)
	}
	if *hookCalls != 0 {
		t.Fatalf("a rejected login must not trigger the logout hook")
	}
}

func TestServiceLoginRejectedWithoutMessage(t *testing.T) {
	svc, _, _ := buildTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.Login(session.WithID(context.Background(), "s1"), LoginRequest{Email: "a@b.co", Password: "x"})
	if got := apiclient.MessageOf(err); got != LoginFailedMessage {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestServiceLogoutClearsToken(t *testing.T) {
	svc, manager, _ := buildTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx := session.WithID(context.Background(), "s1")
	if err := manager.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ok, _ := manager.LoggedIn(ctx); ok {
		t.Fatal("expected logged out session")
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected missing api client to fail")
	}
}

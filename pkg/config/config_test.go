package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://kermes.test/api" {
		t.Fatalf("unexpected API base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("expected default timeout 15s, got %v", cfg.API.Timeout)
	}
	if cfg.Frontend.URL != "https://kermes.example" {
		t.Fatalf("unexpected frontend URL %q", cfg.Frontend.URL)
	}
	if cfg.Session.UsesRedis() {
		t.Fatalf("expected memory session store by default")
	}
	if got := cfg.Upload.MaxImageBytes(); got != 2*1024*1024 {
		t.Fatalf("expected 2MB upload cap, got %d", got)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default")
	}
}

func TestLoad_MissingFrontendURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvFrontendURL, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing frontend url to return an error")
	}
}

func TestLoad_RelativeAPIBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvAPIBaseURL, "/api")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative api url to be rejected")
	}
}

func TestLoad_RedisStoreNeedsAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSessionStore, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis session store without address to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Session.UsesRedis() {
		t.Fatalf("expected redis session store")
	}
}

func TestLoad_UnknownSessionStore(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSessionStore, "cookie")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown session store to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvFrontendURL, "https://kermes.example")
	t.Setenv(EnvAPIBaseURL, "http://kermes.test/api")
	t.Setenv(EnvSessionStore, "memory")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")
}

func TestLoad_LoginRateLimitDefaults(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("KERMES_LOGIN_RATE_EMAIL_LIMIT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Login.Window != 15*time.Minute || cfg.Login.IPLimit != 20 || cfg.Login.EmailLimit != 3 {
		t.Fatalf("unexpected login limits %+v", cfg.Login)
	}
}

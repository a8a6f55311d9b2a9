package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	announcement "github.com/kermes/kermes-panel/internal/announcements"
	"github.com/kermes/kermes-panel/internal/auth"
	brand "github.com/kermes/kermes-panel/internal/brands"
	category "github.com/kermes/kermes-panel/internal/categories"
	discount "github.com/kermes/kermes-panel/internal/discounts"
	product "github.com/kermes/kermes-panel/internal/products"
	"github.com/kermes/kermes-panel/internal/resource/resourcetest"
	"github.com/kermes/kermes-panel/internal/session"
	setting "github.com/kermes/kermes-panel/internal/settings"
	slider "github.com/kermes/kermes-panel/internal/sliders"
	tag "github.com/kermes/kermes-panel/internal/tags"
	"github.com/kermes/kermes-panel/pkg/config"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/metrics"
	panelroutes "github.com/kermes/kermes-panel/pkg/routes"
)

const cookieName = "kermes_panel_session"

type stubAuth struct {
	sessions *session.Manager
}

func (s stubAuth) Login(ctx context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	if err := s.sessions.SetToken(ctx, "tok"); err != nil {
		return nil, err
	}
	return &auth.LoginResponse{}, nil
}

func (s stubAuth) Logout(ctx context.Context) error {
	return s.sessions.ClearToken(ctx)
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		Session: config.SessionConfig{CookieName: cookieName, TTL: time.Hour},
		Upload:  config.UploadConfig{MaxImageMB: 2, MaxImages: 5},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *session.Manager, *resourcetest.API) {
	t.Helper()
	manager, err := session.NewManager(session.NewMemoryStore(), time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	api := resourcetest.New()
	logg := logger.Nop()
	reg := prometheus.NewRegistry()
	metrics.NewAPIClientMetrics(reg)

	svcs := Services{
		Auth:          stubAuth{sessions: manager},
		Categories:    category.NewService(api, logg),
		Tags:          tag.NewService(api, logg),
		Brands:        brand.NewService(api, logg),
		Products:      product.NewService(api, logg),
		Discounts:     discount.NewService(api, logg),
		Sliders:       slider.NewService(api, logg),
		Announcements: announcement.NewService(api, logg),
		Settings:      setting.NewService(api, logg),
	}
	return NewRouter(testConfig(), logg, nil, manager, reg, svcs), manager, api
}

func loggedIn(t *testing.T, manager *session.Manager, req *http.Request) *http.Request {
	t.Helper()
	if err := manager.SetToken(session.WithID(context.Background(), "s1"), "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "s1"})
	return req
}

func TestHealthLive(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Kermes-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRouteRedirectsToLogin(t *testing.T) {
	router, _, api := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/markalar", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Redirect != "/giris-yap" {
		t.Fatalf("unexpected redirect %q", body.Redirect)
	}
	if len(api.Requests()) != 0 {
		t.Fatalf("no upstream call expected")
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), cookieName) {
		t.Fatalf("expected a session cookie to be minted")
	}
}

func TestLoggedInListReachesAPI(t *testing.T) {
	router, manager, api := newTestRouter(t)
	api.Respond(http.MethodGet, brand.BasePath, `{"data":{"data":[],"total":0}}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loggedIn(t, manager, httptest.NewRequest(http.MethodGet, "/markalar?page=1", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := api.Last(t).Path; got != brand.BasePath {
		t.Fatalf("unexpected upstream path %q", got)
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	value := ""
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			value = c.Value
		}
	}
	if value == "" {
		t.Fatalf("expected a %s cookie", cookieName)
	}
	return value
}

func postLogin(router http.Handler, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/giris-yap", strings.NewReader(`{"email":"admin@kermes.test","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginThenLogout(t *testing.T) {
	router, manager, _ := newTestRouter(t)

	rec := postLogin(router, "s2")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	active := sessionCookie(t, rec)
	if active == "s2" {
		t.Fatal("login must move the client to a new session id")
	}
	ctx := session.WithID(context.Background(), active)
	if ok, _ := manager.LoggedIn(ctx); !ok {
		t.Fatal("expected session to be logged in")
	}

	req := httptest.NewRequest(http.MethodPost, LogoutPath, nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: active})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if ok, _ := manager.LoggedIn(ctx); ok {
		t.Fatal("expected session to be logged out")
	}
	if next := sessionCookie(t, rec); next == active {
		t.Fatal("logout must issue a new session id")
	}
}

func TestLoginDoesNotAuthenticatePresetSessionID(t *testing.T) {
	router, manager, _ := newTestRouter(t)
	const preset = "attacker-chosen-id"

	rec := postLogin(router, preset)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := sessionCookie(t, rec); got == preset {
		t.Fatal("login kept the preset session id")
	}
	if ok, _ := manager.LoggedIn(session.WithID(context.Background(), preset)); ok {
		t.Fatal("preset session id must stay logged out")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: preset})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("preset session id reached the dashboard: %d", rec.Code)
	}
}

func TestReloginClearsPreviousSession(t *testing.T) {
	router, manager, _ := newTestRouter(t)
	if err := manager.SetToken(session.WithID(context.Background(), "old"), "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	rec := postLogin(router, "old")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	if ok, _ := manager.LoggedIn(session.WithID(context.Background(), "old")); ok {
		t.Fatal("previous session id must lose its token")
	}
}

func TestEveryScreenIsMounted(t *testing.T) {
	router, _, _ := newTestRouter(t)
	mux, ok := router.(chi.Routes)
	if !ok {
		t.Fatalf("router is not walkable")
	}
	mounted := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodGet {
			mounted[strings.TrimSuffix(route, "/")] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for _, route := range panelroutes.All() {
		p := strings.TrimSuffix(panelroutes.Pattern(route.Path), "/")
		if !mounted[p] {
			t.Errorf("screen %s (%s) is not mounted", route.Name, p)
		}
	}
}

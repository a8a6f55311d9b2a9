package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Frontend FrontendConfig
	Session  SessionConfig
	Redis    RedisConfig
	Upload   UploadConfig
	CORS     CORSConfig
	Login    LoginRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KERMES_APP_ENV" default:"dev"`
	Port         string `envconfig:"KERMES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KERMES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KERMES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the panel at the remote Kermes REST API.
type APIConfig struct {
	BaseURL        string        `envconfig:"KERMES_API_BASE_URL" default:"http://kermes.test/api"`
	Timeout        time.Duration `envconfig:"KERMES_API_TIMEOUT" default:"15s"`
	RateLimitRPS   float64       `envconfig:"KERMES_API_RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int           `envconfig:"KERMES_API_RATE_LIMIT_BURST" default:"10"`
}

// FrontendConfig holds the public storefront and storage locations used to build links.
type FrontendConfig struct {
	URL        string `envconfig:"KERMES_FRONTEND_URL" required:"true"`
	StorageURL string `envconfig:"KERMES_STORAGE_URL" default:"http://kermes.test/storage"`
}

type SessionConfig struct {
	Store        string        `envconfig:"KERMES_SESSION_STORE" default:"memory"`
	CookieName   string        `envconfig:"KERMES_SESSION_COOKIE" default:"kermes_panel_session"`
	TTL          time.Duration `envconfig:"KERMES_SESSION_TTL" default:"12h"`
	SecureCookie bool          `envconfig:"KERMES_SESSION_SECURE_COOKIE" default:"false"`
}

// UsesRedis reports whether tokens are mirrored to Redis.
func (s SessionConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Store), SessionStoreRedis)
}

type RedisConfig struct {
	URL          string        `envconfig:"KERMES_REDIS_URL"`
	Address      string        `envconfig:"KERMES_REDIS_ADDR"`
	Password     string        `envconfig:"KERMES_REDIS_PASSWORD"`
	DB           int           `envconfig:"KERMES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KERMES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KERMES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KERMES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KERMES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KERMES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type UploadConfig struct {
	MaxImageMB int `envconfig:"KERMES_UPLOAD_MAX_IMAGE_MB" default:"2"`
	MaxImages  int `envconfig:"KERMES_UPLOAD_MAX_IMAGES" default:"10"`
}

// MaxImageBytes converts the configured megabyte cap into bytes.
func (u UploadConfig) MaxImageBytes() int64 {
	if u.MaxImageMB <= 0 {
		return 0
	}
	return int64(u.MaxImageMB) * 1024 * 1024
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KERMES_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// LoginRateLimitConfig throttles login attempts. Counters live in Redis, so the limits
// only apply when a Redis address is configured.
type LoginRateLimitConfig struct {
	Window     time.Duration `envconfig:"KERMES_LOGIN_RATE_WINDOW" default:"15m"`
	IPLimit    int           `envconfig:"KERMES_LOGIN_RATE_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"KERMES_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
}

func (c *Config) validate() error {
	if _, err := parseAbsoluteURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("%s: %w", EnvAPIBaseURL, err)
	}
	if _, err := parseAbsoluteURL(c.Frontend.URL); err != nil {
		return fmt.Errorf("%s: %w", EnvFrontendURL, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Session.Store)) {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required when %s=redis", EnvRedisURL, EnvRedisAddr, EnvSessionStore)
		}
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvSessionStore, SessionStoreMemory, SessionStoreRedis, c.Session.Store)
	}
	return nil
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q must be absolute", raw)
	}
	return u, nil
}

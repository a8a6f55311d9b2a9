package config

// EnvPrefix is empty because every variable spells out its KERMES_ name in the struct tags.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const (
	EnvAppEnv       = "KERMES_APP_ENV"
	EnvPort         = "KERMES_APP_PORT"
	EnvLogLevel     = "KERMES_LOG_LEVEL"
	EnvAPIBaseURL   = "KERMES_API_BASE_URL"
	EnvAPITimeout   = "KERMES_API_TIMEOUT"
	EnvAPIRateRPS   = "KERMES_API_RATE_LIMIT_RPS"
	EnvFrontendURL  = "KERMES_FRONTEND_URL"
	EnvStorageURL   = "KERMES_STORAGE_URL"
	EnvSessionStore = "KERMES_SESSION_STORE"
	EnvSessionTTL   = "KERMES_SESSION_TTL"
	EnvRedisURL     = "KERMES_REDIS_URL"
	EnvRedisAddr    = "KERMES_REDIS_ADDR"
	EnvUploadMaxMB  = "KERMES_UPLOAD_MAX_IMAGE_MB"
	EnvCORSOrigins  = "KERMES_CORS_ALLOWED_ORIGINS"
)

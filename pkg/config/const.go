package config

const (
	EnvPrefix = "BAKESHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"

	EnvAPIBaseURL      = "BAKESHOP_API_BASE_URL"
	EnvSessionBackend  = "BAKESHOP_SESSION_BACKEND"
	EnvSessionRedisURL = "BAKESHOP_SESSION_REDIS_URL"
)

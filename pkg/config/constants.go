package config

const (
	EnvPrefix = "FORMAN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv   = "FORMAN_APP_ENV"
	EnvPort     = "FORMAN_APP_PORT"
	EnvLogLevel = "FORMAN_LOG_LEVEL"

	EnvDBDSN    = "FORMAN_DB_DSN"
	EnvDBDriver = "FORMAN_DB_DRIVER"
	EnvDBHost   = "FORMAN_DB_HOST"
	EnvDBUser   = "FORMAN_DB_USER"
	EnvDBName   = "FORMAN_DB_NAME"

	EnvRedisURL = "FORMAN_REDIS_URL"

	EnvJWTSecret  = "FORMAN_JWT_SECRET"
	EnvJWTIssuer  = "FORMAN_JWT_ISSUER"
	EnvJWTExpMins = "FORMAN_JWT_EXPIRATION_MINUTES"

	EnvBillingBypass = "FORMAN_BILLING_BYPASS"

	EnvQuoteExpirationDays = "FORMAN_QUOTE_DEFAULT_EXPIRATION_DAYS"
	EnvLowMarginTargetPct  = "FORMAN_QUOTE_LOW_MARGIN_TARGET_PCT"
	EnvShareTokenLength    = "FORMAN_SHARE_TOKEN_LENGTH"
	EnvCronInterval        = "FORMAN_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Quotes       QuotesConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Quotes.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FORMAN_APP_ENV" required:"true"`
	Port         string `envconfig:"FORMAN_APP_PORT" required:"true"`
	PublicURL    string `envconfig:"FORMAN_APP_PUBLIC_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"FORMAN_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FORMAN_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FORMAN_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"FORMAN_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FORMAN_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FORMAN_DB_DSN"`
	Driver string `envconfig:"FORMAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FORMAN_DB_HOST"`
	LegacyPort     int    `envconfig:"FORMAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FORMAN_DB_USER"`
	LegacyPassword string `envconfig:"FORMAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"FORMAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"FORMAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FORMAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FORMAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FORMAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FORMAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"FORMAN_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FORMAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FORMAN_REDIS_ADDR"`
	Password     string        `envconfig:"FORMAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"FORMAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FORMAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FORMAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FORMAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FORMAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FORMAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FORMAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FORMAN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FORMAN_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"FORMAN_AUTO_MIGRATE" default:"false"`
	BillingBypass bool `envconfig:"FORMAN_BILLING_BYPASS" default:"false"`
}

// QuotesConfig carries the product thresholds used around pricing.
type QuotesConfig struct {
	DefaultExpirationDays int     `envconfig:"FORMAN_QUOTE_DEFAULT_EXPIRATION_DAYS" default:"14"`
	ExpiringSoonHours     int     `envconfig:"FORMAN_QUOTE_EXPIRING_SOON_HOURS" default:"72"`
	LowMarginTargetPct    float64 `envconfig:"FORMAN_QUOTE_LOW_MARGIN_TARGET_PCT" default:"30"`
	DashboardMarginPct    float64 `envconfig:"FORMAN_DASHBOARD_MARGIN_TARGET_PCT" default:"25"`
	TrialDays             int     `envconfig:"FORMAN_TRIAL_DAYS" default:"7"`
	ShareTokenLength      int     `envconfig:"FORMAN_SHARE_TOKEN_LENGTH" default:"22"`
	HistoricalSampleLimit int     `envconfig:"FORMAN_HISTORICAL_SAMPLE_LIMIT" default:"100"`
}

func (q QuotesConfig) DefaultExpiration() time.Duration {
	return time.Duration(q.DefaultExpirationDays) * 24 * time.Hour
}

func (q QuotesConfig) ExpiringSoonWindow() time.Duration {
	return time.Duration(q.ExpiringSoonHours) * time.Hour
}

func (q QuotesConfig) TrialPeriod() time.Duration {
	return time.Duration(q.TrialDays) * 24 * time.Hour
}

func (q QuotesConfig) validate() error {
	switch {
	case q.DefaultExpirationDays <= 0:
		return fmt.Errorf("%s must be positive", EnvQuoteExpirationDays)
	case q.ShareTokenLength < 16:
		return fmt.Errorf("%s must be at least 16", EnvShareTokenLength)
	case q.LowMarginTargetPct < 0 || q.LowMarginTargetPct > 100:
		return fmt.Errorf("%s must be between 0 and 100", EnvLowMarginTargetPct)
	}
	return nil
}

// RateLimitConfig bounds unauthenticated traffic on the public share routes.
type RateLimitConfig struct {
	PublicShareWindow  time.Duration `envconfig:"FORMAN_PUBLIC_SHARE_RATE_WINDOW" default:"1m"`
	PublicShareIPLimit int           `envconfig:"FORMAN_PUBLIC_SHARE_RATE_IP_LIMIT" default:"60"`

	// TrustedProxyHops counts proxies that append to X-Forwarded-For.
	TrustedProxyHops int `envconfig:"FORMAN_TRUSTED_PROXY_HOPS" default:"0"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"FORMAN_CRON_INTERVAL" default:"24h"`
	LockTTL    time.Duration `envconfig:"FORMAN_CRON_LOCK_TTL" default:"30m"`
	JobTimeout time.Duration `envconfig:"FORMAN_CRON_JOB_TIMEOUT" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || strings.EqualFold(db.Driver, DBDriverSQLite) {
		if db.DSN == "" {
			db.DSN = "file:forman.db?_foreign_keys=on"
		}
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

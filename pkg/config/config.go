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
	Webhook      WebhookConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAGICSTARS_APP_ENV" required:"true"`
	Port         string `envconfig:"MAGICSTARS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAGICSTARS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAGICSTARS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MAGICSTARS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MAGICSTARS_DB_DSN"`
	Driver string `envconfig:"MAGICSTARS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAGICSTARS_DB_HOST"`
	LegacyPort     int    `envconfig:"MAGICSTARS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAGICSTARS_DB_USER"`
	LegacyPassword string `envconfig:"MAGICSTARS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAGICSTARS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAGICSTARS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAGICSTARS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAGICSTARS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAGICSTARS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAGICSTARS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAGICSTARS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAGICSTARS_REDIS_ADDR"`
	Password     string        `envconfig:"MAGICSTARS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAGICSTARS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAGICSTARS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAGICSTARS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAGICSTARS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAGICSTARS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAGICSTARS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAGICSTARS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAGICSTARS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MAGICSTARS_JWT_EXPIRATION_MINUTES" required:"true"`
}

// WebhookConfig controls the audit webhook outbox publisher.
type WebhookConfig struct {
	SinkURL        string        `envconfig:"MAGICSTARS_WEBHOOK_SINK_URL"`
	RequestTimeout time.Duration `envconfig:"MAGICSTARS_WEBHOOK_REQUEST_TIMEOUT" default:"15s"`
	BatchSize      int           `envconfig:"MAGICSTARS_WEBHOOK_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"MAGICSTARS_WEBHOOK_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"MAGICSTARS_WEBHOOK_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int           `envconfig:"MAGICSTARS_WEBHOOK_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MAGICSTARS_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"MAGICSTARS_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MAGICSTARS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MAGICSTARS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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

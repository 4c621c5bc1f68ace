package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FORKLINE_DB_DSN"
	EnvDBHost = "FORKLINE_DB_HOST"
	EnvDBUser = "FORKLINE_DB_USER"
	EnvDBName = "FORKLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Fees         FeesConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"FORKLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"FORKLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FORKLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FORKLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FORKLINE_DB_DSN"`
	Driver string `envconfig:"FORKLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FORKLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"FORKLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FORKLINE_DB_USER"`
	LegacyPassword string `envconfig:"FORKLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FORKLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FORKLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FORKLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FORKLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FORKLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FORKLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FORKLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FORKLINE_REDIS_ADDR"`
	Password     string        `envconfig:"FORKLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FORKLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FORKLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FORKLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FORKLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FORKLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FORKLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FORKLINE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// FeesConfig tunes the fee-configuration store; the platform default fee
// values themselves are fixed in internal/feeconfig.
type FeesConfig struct {
	ConfigCacheTTL time.Duration `envconfig:"FORKLINE_FEE_CONFIG_CACHE_TTL" default:"5m"`
}

// RateLimitConfig throttles the write surfaces per client IP. A zero window
// or limit disables the corresponding limiter.
type RateLimitConfig struct {
	Window     time.Duration `envconfig:"FORKLINE_RATE_LIMIT_WINDOW" default:"1m"`
	WriteLimit int64         `envconfig:"FORKLINE_RATE_LIMIT_WRITES" default:"120"`
	AdminLimit int64         `envconfig:"FORKLINE_RATE_LIMIT_ADMIN" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FORKLINE_AUTO_MIGRATE" default:"false"`
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

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "civictrack"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the test harness.
const (
	EnvAppEnv     = "CIVICTRACK_APP_ENV"
	EnvPort       = "CIVICTRACK_APP_PORT"
	EnvDBDSN      = "CIVICTRACK_DB_DSN"
	EnvDBHost     = "CIVICTRACK_DB_HOST"
	EnvDBUser     = "CIVICTRACK_DB_USER"
	EnvDBName     = "CIVICTRACK_DB_NAME"
	EnvRedisURL   = "CIVICTRACK_REDIS_URL"
	EnvJWTSecret  = "CIVICTRACK_JWT_SECRET"
	EnvJWTIssuer  = "CIVICTRACK_JWT_ISSUER"
	EnvJWTExpMins = "CIVICTRACK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Geocoding     GeocodingConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"CIVICTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"CIVICTRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CIVICTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CIVICTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CIVICTRACK_DB_DSN"`
	Driver string `envconfig:"CIVICTRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CIVICTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"CIVICTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CIVICTRACK_DB_USER"`
	LegacyPassword string `envconfig:"CIVICTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CIVICTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CIVICTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CIVICTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CIVICTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CIVICTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CIVICTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CIVICTRACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CIVICTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"CIVICTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CIVICTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CIVICTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CIVICTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CIVICTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CIVICTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CIVICTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"CIVICTRACK_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"CIVICTRACK_JWT_ISSUER" required:"true"`
	// Session tokens are valid for 7 days unless configured otherwise.
	ExpirationMinutes int `envconfig:"CIVICTRACK_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TokenTTL returns the configured token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CIVICTRACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CIVICTRACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CIVICTRACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CIVICTRACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CIVICTRACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CIVICTRACK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GeocodingConfig struct {
	BaseURL   string        `envconfig:"CIVICTRACK_GEOCODING_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"CIVICTRACK_GEOCODING_USER_AGENT" default:"CivicTrack/1.0"`
	Timeout   time.Duration `envconfig:"CIVICTRACK_GEOCODING_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CIVICTRACK_AUTO_MIGRATE" default:"false"`
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

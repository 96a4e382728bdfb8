package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the app.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"SOOQRA_APP_ENV" required:"true"`
	Port         string `envconfig:"SOOQRA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SOOQRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOOQRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOOQRA_DB_DSN"`
	Driver string `envconfig:"SOOQRA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SOOQRA_DB_HOST"`
	Port     int    `envconfig:"SOOQRA_DB_PORT" default:"5432"`
	User     string `envconfig:"SOOQRA_DB_USER"`
	Password string `envconfig:"SOOQRA_DB_PASSWORD"`
	Name     string `envconfig:"SOOQRA_DB_NAME"`
	SSLMode  string `envconfig:"SOOQRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOOQRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOOQRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOOQRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOOQRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOOQRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOOQRA_REDIS_ADDR"`
	Password     string        `envconfig:"SOOQRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOOQRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOOQRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOOQRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOOQRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOOQRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOOQRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOOQRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOOQRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SOOQRA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOOQRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOOQRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOOQRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOOQRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOOQRA_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	CodeTTL           time.Duration `envconfig:"SOOQRA_OTP_CODE_TTL" default:"5m"`
	RequestWindow     time.Duration `envconfig:"SOOQRA_OTP_REQUEST_WINDOW" default:"15m"`
	RequestsPerWindow int           `envconfig:"SOOQRA_OTP_REQUESTS_PER_WINDOW" default:"3"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOOQRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOOQRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOOQRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOOQRA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOOQRA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOOQRA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOOQRA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		env   string
		value string
	}{
		{"SOOQRA_DB_HOST", db.Host},
		{"SOOQRA_DB_USER", db.User},
		{"SOOQRA_DB_NAME", db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either SOOQRA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

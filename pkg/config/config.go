package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	PagLeve       PagLeveConfig
	Webhook       WebhookConfig
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
	Env          string `envconfig:"DISTRIBUIDORA_APP_ENV" required:"true"`
	Port         string `envconfig:"DISTRIBUIDORA_APP_PORT" required:"true"`
	PublicURL    string `envconfig:"DISTRIBUIDORA_APP_PUBLIC_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"DISTRIBUIDORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISTRIBUIDORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DISTRIBUIDORA_DB_DSN"`
	Driver string `envconfig:"DISTRIBUIDORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DISTRIBUIDORA_DB_HOST"`
	LegacyPort     int    `envconfig:"DISTRIBUIDORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DISTRIBUIDORA_DB_USER"`
	LegacyPassword string `envconfig:"DISTRIBUIDORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"DISTRIBUIDORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"DISTRIBUIDORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISTRIBUIDORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISTRIBUIDORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISTRIBUIDORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISTRIBUIDORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISTRIBUIDORA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DISTRIBUIDORA_REDIS_ADDR"`
	Password     string        `envconfig:"DISTRIBUIDORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISTRIBUIDORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISTRIBUIDORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISTRIBUIDORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISTRIBUIDORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISTRIBUIDORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISTRIBUIDORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DISTRIBUIDORA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DISTRIBUIDORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DISTRIBUIDORA_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DISTRIBUIDORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DISTRIBUIDORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DISTRIBUIDORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DISTRIBUIDORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DISTRIBUIDORA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DISTRIBUIDORA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DISTRIBUIDORA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DISTRIBUIDORA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DISTRIBUIDORA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DISTRIBUIDORA_AUTO_MIGRATE" default:"false"`
}

// PagLeveConfig is the process-level fallback for gateway credentials.
// Site settings take precedence; these apply when settings rows are blank.
type PagLeveConfig struct {
	APIKey  string        `envconfig:"DISTRIBUIDORA_PAGLEVE_API_KEY"`
	Secret  string        `envconfig:"DISTRIBUIDORA_PAGLEVE_SECRET"`
	BaseURL string        `envconfig:"DISTRIBUIDORA_PAGLEVE_BASE_URL" default:"https://api.pagleve.com.br"`
	Timeout time.Duration `envconfig:"DISTRIBUIDORA_PAGLEVE_TIMEOUT" default:"30s"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"DISTRIBUIDORA_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
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

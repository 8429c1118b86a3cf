package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "FLORALIA"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
	MercadoPago MercadoPagoConfig
	Checkout    CheckoutConfig
	GCS         GCSConfig
	CORS        CORSConfig

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
	Env          string `envconfig:"FLORALIA_APP_ENV" required:"true"`
	Port         string `envconfig:"FLORALIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FLORALIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLORALIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FLORALIA_DB_DSN"`

	Host     string `envconfig:"FLORALIA_DB_HOST"`
	Port     int    `envconfig:"FLORALIA_DB_PORT" default:"5432"`
	User     string `envconfig:"FLORALIA_DB_USER"`
	Password string `envconfig:"FLORALIA_DB_PASSWORD"`
	Name     string `envconfig:"FLORALIA_DB_NAME"`
	SSLMode  string `envconfig:"FLORALIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLORALIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLORALIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLORALIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLORALIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FLORALIA_REDIS_URL"`
	Address      string        `envconfig:"FLORALIA_REDIS_ADDR"`
	Password     string        `envconfig:"FLORALIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLORALIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLORALIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLORALIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLORALIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLORALIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLORALIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"FLORALIA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"FLORALIA_JWT_ISSUER" default:"floralia"`
}

type RateLimitConfig struct {
	CouponWindow  time.Duration `envconfig:"FLORALIA_RATE_LIMIT_COUPON_WINDOW" default:"1m"`
	CouponIPLimit int           `envconfig:"FLORALIA_RATE_LIMIT_COUPON_IP_LIMIT" default:"20"`
}

type MercadoPagoConfig struct {
	AccessToken   string `envconfig:"FLORALIA_MP_ACCESS_TOKEN" required:"true"`
	WebhookSecret string `envconfig:"FLORALIA_MP_WEBHOOK_SECRET"`
	SuccessURL    string `envconfig:"FLORALIA_MP_SUCCESS_URL"`
	FailureURL    string `envconfig:"FLORALIA_MP_FAILURE_URL"`
	PendingURL    string `envconfig:"FLORALIA_MP_PENDING_URL"`
}

type CheckoutConfig struct {
	// DefaultTaxRate is the inclusive IVA rate used when no store setting row
	// exists yet, expressed as a decimal string ("0.16" = 16%).
	DefaultTaxRate string `envconfig:"FLORALIA_CHECKOUT_DEFAULT_TAX_RATE" default:"0.16"`

	WelcomeCouponPercent int           `envconfig:"FLORALIA_WELCOME_COUPON_PERCENT" default:"10"`
	WelcomeCouponTTL     time.Duration `envconfig:"FLORALIA_WELCOME_COUPON_TTL" default:"720h"`
}

type GCSConfig struct {
	BucketName      string `envconfig:"FLORALIA_GCS_BUCKET_NAME"`
	CredentialsJSON string `envconfig:"FLORALIA_GCS_CREDENTIALS_JSON"`
	PublicBaseURL   string `envconfig:"FLORALIA_GCS_PUBLIC_BASE_URL"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FLORALIA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	// AutoMigrate runs pending goose migrations on startup in dev mode only.
	AutoMigrate bool `envconfig:"FLORALIA_FEATURE_AUTO_MIGRATE" default:"false"`
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	Commerce     CommerceConfig
	ImageHost    ImageHostConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN" required:"true"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
}

// CheckoutConfig keeps order math server-side so clients cannot tamper
// with delivery fees or the tax rate.
type CheckoutConfig struct {
	StandardDeliveryFee decimal.Decimal `envconfig:"STOREFRONT_CHECKOUT_STANDARD_FEE" default:"3.00"`
	ExpressDeliveryFee  decimal.Decimal `envconfig:"STOREFRONT_CHECKOUT_EXPRESS_FEE" default:"6.00"`
	TaxRate             decimal.Decimal `envconfig:"STOREFRONT_CHECKOUT_TAX_RATE" default:"0.05"`
	SubmitGuardTTL      time.Duration   `envconfig:"STOREFRONT_CHECKOUT_SUBMIT_GUARD_TTL" default:"30s"`
}

func (c CheckoutConfig) validate() error {
	if c.StandardDeliveryFee.IsNegative() || c.ExpressDeliveryFee.IsNegative() {
		return fmt.Errorf("delivery fees must be non-negative")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be within [0,1]")
	}
	return nil
}

// CommerceConfig points at the upstream commerce API that owns products
// and order creation.
type CommerceConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_COMMERCE_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"STOREFRONT_COMMERCE_API_KEY"`
	Timeout time.Duration `envconfig:"STOREFRONT_COMMERCE_TIMEOUT" default:"15s"`
}

// ImageHostConfig points at the image-hosting API that stores
// prescription uploads.
type ImageHostConfig struct {
	UploadURL   string        `envconfig:"STOREFRONT_IMAGEHOST_UPLOAD_URL" default:"https://api.imgbb.com/1/upload"`
	APIKey      string        `envconfig:"STOREFRONT_IMAGEHOST_API_KEY" required:"true"`
	Timeout     time.Duration `envconfig:"STOREFRONT_IMAGEHOST_TIMEOUT" default:"30s"`
	MaxUploadMB int           `envconfig:"STOREFRONT_IMAGEHOST_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
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
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PASARSENI_APP_ENV" required:"true"`
	Port         string `envconfig:"PASARSENI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PASARSENI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PASARSENI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PASARSENI_DB_DSN"`
	Driver string `envconfig:"PASARSENI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PASARSENI_DB_HOST"`
	LegacyPort     int    `envconfig:"PASARSENI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PASARSENI_DB_USER"`
	LegacyPassword string `envconfig:"PASARSENI_DB_PASSWORD"`
	LegacyName     string `envconfig:"PASARSENI_DB_NAME"`
	LegacySSLMode  string `envconfig:"PASARSENI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PASARSENI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PASARSENI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PASARSENI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PASARSENI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PASARSENI_REDIS_URL"`
	Address      string        `envconfig:"PASARSENI_REDIS_ADDR"`
	Password     string        `envconfig:"PASARSENI_REDIS_PASSWORD"`
	DB           int           `envconfig:"PASARSENI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PASARSENI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PASARSENI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PASARSENI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PASARSENI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PASARSENI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"PASARSENI_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PASARSENI_JWT_ISSUER" required:"true"`
}

// CartConfig controls durable cart snapshots.
type CartConfig struct {
	// SlotBackend selects where cart snapshots are mirrored: "redis" or "db".
	SlotBackend string        `envconfig:"PASARSENI_CART_SLOT_BACKEND" default:"redis"`
	SlotTTL     time.Duration `envconfig:"PASARSENI_CART_SLOT_TTL" default:"720h"`
}

type CheckoutConfig struct {
	CommissionRate float64       `envconfig:"PASARSENI_CHECKOUT_COMMISSION_RATE" default:"0.05"`
	OrderEndpoint  string        `envconfig:"PASARSENI_CHECKOUT_ORDER_ENDPOINT" required:"true"`
	SubmitTimeout  time.Duration `envconfig:"PASARSENI_CHECKOUT_SUBMIT_TIMEOUT" default:"15s"`
}

func (c CheckoutConfig) validate() error {
	if c.CommissionRate < 0 || c.CommissionRate >= 1 {
		return fmt.Errorf("commission rate must be in [0, 1), got %v", c.CommissionRate)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PASARSENI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PASARSENI_AUTO_MIGRATE" default:"false"`
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

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Realtime     RealtimeConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEALVINE_APP_ENV" required:"true"`
	Port         string `envconfig:"MEALVINE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MEALVINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEALVINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEALVINE_DB_DSN" required:"true"`
	Driver string `envconfig:"MEALVINE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"MEALVINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEALVINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEALVINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEALVINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEALVINE_REDIS_URL"`
	Address      string        `envconfig:"MEALVINE_REDIS_ADDR"`
	Password     string        `envconfig:"MEALVINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEALVINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEALVINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEALVINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEALVINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEALVINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEALVINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEALVINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEALVINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MEALVINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RealtimeConfig struct {
	KeepaliveInterval time.Duration `envconfig:"MEALVINE_REALTIME_KEEPALIVE_INTERVAL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEALVINE_AUTO_MIGRATE" default:"false"`
}

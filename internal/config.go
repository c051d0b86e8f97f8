package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env       string          `mapstructure:"env" env:"APP_ENV" envDefault:"development" validate:"required,oneof=development staging production"`
	Server    ServerConfig    `mapstructure:"http_server" envPrefix:"HTTP_"`
	Database  DatabaseConfig  `mapstructure:"database" envPrefix:"DATABASE_"`
	Security  SecurityConfig  `mapstructure:"security" envPrefix:"SECURITY_" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis" envPrefix:"REDIS_"`
	Kafka     KafkaConfig     `mapstructure:"kafka" envPrefix:"KAFKA_"`
	Identity  IdentityConfig  `mapstructure:"identity" envPrefix:"IDENTITY_"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Logging   LoggingConfig   `mapstructure:"logging" envPrefix:"LOG_"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT" envDefault:"8080" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url" env:"BASE_URL"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS" envDefault:"*"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT" envDefault:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT" envDefault:"15s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS" envDefault:"20" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS" envDefault:"5" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME" envDefault:"30m" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME" envDefault:"5m" validate:"required,min=1m"`
	Source          string        `mapstructure:"source" env:"SOURCE" validate:"required"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret" env:"JWT_ACCESS_SECRET" validate:"required,min=32"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" env:"JWT_REFRESH_SECRET" validate:"required,min=32,nefield=JWTAccessSecret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" env:"ACCESS_TOKEN_DURATION" envDefault:"15m" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" env:"REFRESH_TOKEN_DURATION" envDefault:"168h" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" env:"BCRYPT_COST" envDefault:"12" validate:"required,min=10,max=15"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr" env:"ADDR"`
	Password  string `mapstructure:"password" env:"PASSWORD"`
	DB        int    `mapstructure:"db" env:"DB" validate:"min=0"`
	InboxSize int    `mapstructure:"inbox_size" env:"INBOX_SIZE" envDefault:"50" validate:"min=0"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `mapstructure:"topic" env:"TOPIC" envDefault:"finance-notifications" validate:"required_with=Brokers"`
}

type IdentityConfig struct {
	RevokeURL string        `mapstructure:"revoke_url" env:"REVOKE_URL" validate:"omitempty,url"`
	APIKey    string        `mapstructure:"api_key" env:"API_KEY" validate:"required_with=RevokeURL"`
	Timeout   time.Duration `mapstructure:"timeout" env:"TIMEOUT" envDefault:"5s"`
}

type RateLimitConfig struct {
	AuthRequestsPerMinute int `mapstructure:"auth_requests_per_minute" env:"AUTH_REQUESTS_PER_MINUTE" envDefault:"20" validate:"min=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" env:"FORMAT" envDefault:"json" validate:"required,oneof=json text"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfigFromEnv builds the configuration from process environment
// variables; used for container deployments.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

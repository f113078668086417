package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const devJWTSecret = "default_super_secret_key"

// Config holds every setting of the API server. Values come from the
// environment, optionally seeded from configs/.env.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"ecopark"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	RedisURL    string   `envconfig:"REDIS_URL"`
	RateLimit   string   `envconfig:"RATE_LIMIT" default:"10-M"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// Load reads envFile when it exists, then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing file is normal outside local development.
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	switch c.DBDriver {
	case "postgres":
		if c.DBPort == "" {
			c.DBPort = "5432"
		}
	case "mysql":
		if c.DBPort == "" {
			c.DBPort = "3306"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: must be postgres or mysql", c.DBDriver)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"go-best-conversion/domain"
	"gopkg.in/yaml.v3"
	"math"
	"os"
	"strconv"
	"time"
)

// DevelopEnv selects the local fixture instead of the remote API
const DevelopEnv = "develop"

// Config holds application configuration
type Config struct {
	Env string `yaml:"env"`

	Rates struct {
		Endpoint    string        `yaml:"endpoint"`
		Seed        string        `yaml:"seed"`
		FixturePath string        `yaml:"fixture_path"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"rates"`

	Source struct {
		Code   string  `yaml:"code"`
		Name   string  `yaml:"name"`
		Amount float64 `yaml:"amount"`
	} `yaml:"source"`

	Engine struct {
		MaxSettles int           `yaml:"max_settles"`
		RunTimeout time.Duration `yaml:"run_timeout"`
	} `yaml:"engine"`

	Output struct {
		File string `yaml:"file"`
	} `yaml:"output"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Cache struct {
		RedisURL string        `yaml:"redis_url"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func defaultConfig() Config {
	var c Config
	c.Rates.Timeout = 5 * time.Second
	c.Source.Code = "CAD"
	c.Source.Name = "Canada Dollar"
	c.Source.Amount = 100
	c.Engine.MaxSettles = 1_000_000
	c.Engine.RunTimeout = 30 * time.Second
	c.Output.File = "optimal_conversions.csv"
	c.Server.Addr = ":8080"
	c.Cache.TTL = 1 * time.Minute
	c.Logging.Level = "info"
	return c
}

// Load reads configuration: defaults, then the YAML file named by
// BESTRATE_CONFIG, then environment variables (a .env file is loaded first if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := defaultConfig()
	if path := os.Getenv("BESTRATE_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config [%v]: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("decoding config [%v]: %w", path, err)
		}
	}

	c.Env = getEnv("APP_ENV", c.Env)
	c.Rates.Endpoint = getEnv("CURRENCY_CONVERSION_API_ENDPOINT", c.Rates.Endpoint)
	c.Rates.Seed = getEnv("CURRENCY_CONVERSION_API_SEED", c.Rates.Seed)
	c.Rates.FixturePath = getEnv("FIXTURE_PATH", c.Rates.FixturePath)
	c.Rates.Timeout = getEnvAsDuration("RATES_TIMEOUT", c.Rates.Timeout)
	c.Source.Code = getEnv("SOURCE_CODE", c.Source.Code)
	c.Source.Name = getEnv("SOURCE_NAME", c.Source.Name)
	c.Source.Amount = getEnvAsFloat("SOURCE_AMOUNT", c.Source.Amount)
	c.Engine.MaxSettles = getEnvAsInt("MAX_SETTLES", c.Engine.MaxSettles)
	c.Engine.RunTimeout = getEnvAsDuration("RUN_TIMEOUT", c.Engine.RunTimeout)
	c.Output.File = getEnv("OUTPUT_FILE", c.Output.File)
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.TTL = getEnvAsDuration("CACHE_TTL", c.Cache.TTL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	return &c, nil
}

// Develop reports whether the local fixture should be used
func (c *Config) Develop() bool {
	return c.Env == DevelopEnv
}

// HomeSource the configured home currency
func (c *Config) HomeSource() domain.Source {
	return domain.Source{
		Code:   domain.Currency(c.Source.Code),
		Name:   c.Source.Name,
		Amount: domain.Amount(c.Source.Amount),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if !c.Develop() && c.Rates.Endpoint == "" {
		return errors.New("CURRENCY_CONVERSION_API_ENDPOINT is required outside develop mode")
	}
	if c.Source.Code == "" {
		return errors.New("source currency code is required")
	}
	if !(c.Source.Amount > 0) || math.IsInf(c.Source.Amount, 1) {
		return fmt.Errorf("source amount must be positive and finite, got %v", c.Source.Amount)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

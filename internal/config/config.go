package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DBPath          string        `mapstructure:"DB_PATH"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	SeedPath        string        `mapstructure:"SEED_PATH"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	RecordsBaseURL  string        `mapstructure:"RECORDS_BASE_URL"`
	RecordsAPIKey   string        `mapstructure:"RECORDS_API_KEY"`
	RecordsTimeout  time.Duration `mapstructure:"RECORDS_TIMEOUT"`
	RecordsCacheTTL time.Duration `mapstructure:"RECORDS_CACHE_TTL"`
	CountyProfile   string        `mapstructure:"COUNTY_PROFILE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	BatchWorkers    int           `mapstructure:"BATCH_WORKERS"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"DB_DRIVER":         "sqlite",
	"DB_PATH":           "data/sites.db",
	"DATABASE_URL":      "",
	"SEED_PATH":         "",
	"REDIS_URL":         "",
	"RECORDS_BASE_URL":  "",
	"RECORDS_API_KEY":   "",
	"RECORDS_TIMEOUT":   "10s",
	"RECORDS_CACHE_TTL": "10m",
	"COUNTY_PROFILE":    "",
	"LOG_LEVEL":         "info",
	"CORS_ORIGINS":      "",
	"BATCH_WORKERS":     5,
}

// Load layers defaults, an optional .env.<APP_ENV> file in dir, and the
// process environment (highest precedence).
func Load(dir string) (c Config, err error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	// Every key needs a default so AutomaticEnv values reach Unmarshal.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName(fmt.Sprintf(".env.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("load config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("load config: unmarshal: %w", err)
	}

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.CORSOrigins = cleanList(c.CORSOrigins)

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "pgx", "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=pgx")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("config: BATCH_WORKERS must be >= 1, got %d", c.BatchWorkers)
	}
	return nil
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

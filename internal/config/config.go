package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// Enabled reports whether bearer tokens from Casdoor are accepted.
func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != "" && c.Cert != ""
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	AutoMigrate bool

	RedisURL string

	SessionSecret string
	SessionTTL    time.Duration

	KafkaBrokers []string
	EventTopic   string

	AllowedOrigins []string

	Casdoor CasdoorConfig
}

// ErrMissingRequired is returned when a required variable is unset.
var ErrMissingRequired = errors.New("missing required configuration")

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. DATABASE_URL and SESSION_SECRET must
// both be set.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var missing []string
	for _, key := range []string{"DATABASE_URL", "SESSION_SECRET"} {
		if get(key, "") == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		Environment:   get("ENVIRONMENT", "development"),
		DatabaseURL:   get("DATABASE_URL", ""),
		RedisURL:      get("REDIS_URL", ""),
		SessionSecret: get("SESSION_SECRET", ""),
		EventTopic:    get("EVENT_TOPIC", "educloud.subscriptions"),
		Casdoor: CasdoorConfig{
			Endpoint:     get("CASDOOR_ENDPOINT", ""),
			ClientID:     get("CASDOOR_CLIENT_ID", ""),
			ClientSecret: get("CASDOOR_CLIENT_SECRET", ""),
			Cert:         get("CASDOOR_CERT", ""),
			Organization: get("CASDOOR_ORGANIZATION", ""),
			Application:  get("CASDOOR_APPLICATION", ""),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	ttl, err := time.ParseDuration(get("SESSION_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", get("SESSION_TTL", ""))
	}
	cfg.SessionTTL = ttl

	if raw := get("AUTO_MIGRATE", "false"); raw != "" {
		cfg.AutoMigrate, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
		}
	}

	cfg.KafkaBrokers = splitList(get("KAFKA_BROKERS", ""))
	cfg.AllowedOrigins = splitList(get("ALLOWED_ORIGINS", ""))

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

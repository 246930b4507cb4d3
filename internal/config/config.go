package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Store     BackendConfig   `mapstructure:"store"`
	Notifier  BackendConfig   `mapstructure:"notifier"`
	Cart      CartConfig      `mapstructure:"cart"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kitchen   KitchenConfig   `mapstructure:"kitchen"`
	Tracking  TrackingConfig  `mapstructure:"tracking"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	LogLevel  string          `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type BackendConfig struct {
	Backend string `mapstructure:"backend"`
}

type CartConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KitchenConfig holds the shared kitchen credential. It is a convenience
// gate, not access control.
type KitchenConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type TrackingConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type AssistantConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	TextModel   string        `mapstructure:"text_model"`
	ImageModel  string        `mapstructure:"image_model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

const envPrefix = "GK"

var defaults = map[string]any{
	"http.port":              3000,
	"http.max_concurrent":    50,
	"http.request_timeout":   30 * time.Second,
	"store.backend":          "memory",
	"notifier.backend":       "memory",
	"cart.backend":           "memory",
	"cart.ttl":               2 * time.Hour,
	"database.host":          "",
	"database.port":          5432,
	"database.user":          "",
	"database.password":      "",
	"database.database":      "",
	"database.sslmode":       "disable",
	"database.max_conns":     10,
	"rabbitmq.host":          "",
	"rabbitmq.port":          5672,
	"rabbitmq.user":          "guest",
	"rabbitmq.password":      "guest",
	"rabbitmq.vhost":         "/",
	"redis.addr":             "localhost:6379",
	"redis.password":         "",
	"redis.db":               0,
	"kitchen.username":       "administrador",
	"kitchen.password":       "1234546789",
	"tracking.poll_interval": 2 * time.Second,
	"assistant.api_key":      "",
	"assistant.text_model":   "gemini-2.5-flash",
	"assistant.image_model":  "gemini-2.5-flash-image",
	"assistant.temperature":  0.7,
	"assistant.timeout":      20 * time.Second,
	"log_level":              "INFO",
}

// Load reads path (optional, YAML) and overlays GK_* environment variables.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http.port %d", c.HTTP.Port)
	}
	switch c.Store.Backend {
	case "memory", "redis":
	case "postgres":
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid config: store.backend %q", c.Store.Backend)
	}
	switch c.Notifier.Backend {
	case "memory", "redis":
	case "postgres":
		if err := c.Database.validate(); err != nil {
			return err
		}
	case "rabbitmq":
		if c.RabbitMQ.Host == "" {
			return errors.New("invalid config: missing rabbitmq host")
		}
	default:
		return fmt.Errorf("invalid config: notifier.backend %q", c.Notifier.Backend)
	}
	switch c.Cart.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid config: cart.backend %q", c.Cart.Backend)
	}
	if c.Tracking.PollInterval <= 0 {
		return errors.New("invalid config: tracking.poll_interval must be positive")
	}
	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" || d.User == "" || d.Database == "" {
		return errors.New("invalid config: database config incomplete")
	}
	return nil
}

// DSN is the pgxpool connection string.
func (d DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	if d.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(d.MaxConns))
	}
	return d.buildURL("postgres", q)
}

// MigrateURL is the golang-migrate pgx/v5 driver URL.
func (d DatabaseConfig) MigrateURL() string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	return d.buildURL("pgx5", q)
}

func (d DatabaseConfig) buildURL(scheme string, q url.Values) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// FindConfig returns the first config file present, or fs.ErrNotExist.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

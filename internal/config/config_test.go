package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "memory", cfg.Notifier.Backend)
	assert.Equal(t, 2*time.Second, cfg.Tracking.PollInterval)
	assert.Equal(t, "administrador", cfg.Kitchen.Username)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
http:
  port: 8081
store:
  backend: postgres
notifier:
  backend: rabbitmq
database:
  host: db
  user: kitchen
  password: "s3cret"
  database: origen
rabbitmq:
  host: mq
tracking:
  poll_interval: 3s
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "mq", cfg.RabbitMQ.Host)
	assert.Equal(t, 3*time.Second, cfg.Tracking.PollInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "http:\n  port: 8081\n")
	t.Setenv("GK_HTTP_PORT", "9090")
	t.Setenv("GK_KITCHEN_PASSWORD", "changed")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "changed", cfg.Kitchen.Password)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown store":       "store:\n  backend: sqlite\n",
		"postgres incomplete": "store:\n  backend: postgres\n",
		"rabbit without host": "notifier:\n  backend: rabbitmq\n",
		"unknown cart":        "cart:\n  backend: mongo\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_URLs(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", Database: "origen", SSLMode: "disable", MaxConns: 4}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/origen?pool_max_conns=4&sslmode=disable", d.DSN())
	assert.Equal(t, "pgx5://u:p%40ss@db:5432/origen?sslmode=disable", d.MigrateURL())
}

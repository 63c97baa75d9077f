package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, SourceYAML, cfg.Cards.Source)
	assert.Equal(t, 1000, cfg.Database.BatchSize)
	assert.Equal(t, "Human", cfg.Factory.DefaultOwner)
	assert.Zero(t, cfg.Factory.RandomSeed)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
cards:
  source: postgres
  removed: [Chaos Orb, Falling Star]
database:
  url: postgres://cards@db/cards
  max_conns: 8
factory:
  random_seed: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, SourcePostgres, cfg.Cards.Source)
	assert.Equal(t, []string{"Chaos Orb", "Falling Star"}, cfg.Cards.Removed)
	assert.Equal(t, "postgres://cards@db/cards", cfg.Database.URL)
	assert.EqualValues(t, 8, cfg.Database.MaxConns)
	assert.EqualValues(t, 42, cfg.Factory.RandomSeed)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CARDFACTORY_DATABASE_URL", "postgres://env@db/cards")
	t.Setenv("CARDFACTORY_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@db/cards", cfg.Database.URL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown source", body: "cards:\n  source: csv\n", want: `cards.source "csv"`},
		{name: "bad batch", body: "database:\n  batch_size: 0\n", want: "batch_size"},
		{name: "empty owner", body: "factory:\n  default_owner: \"\"\n", want: "default_owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		cfg   LoggingConfig
		debug bool
		info  bool
	}{
		{cfg: LoggingConfig{Level: "debug", Format: "json"}, debug: true, info: true},
		{cfg: LoggingConfig{Level: "warn"}, debug: false, info: false},
		{cfg: LoggingConfig{Level: "loud"}, debug: false, info: true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Level, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.info, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

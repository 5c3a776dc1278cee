package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(viper.New(), "")

		require.NoError(t, err)
		assert.Equal(t, "8090", cfg.Port)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, 4, cfg.PageWorkers)
		assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
		assert.Equal(t, time.Hour, cfg.JobTTL)
		assert.Equal(t, "eng", cfg.OCRLanguage)
	})

	t.Run("Should read an explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\npage_workers: 8\njob_ttl: 30m\n"), 0o644))

		cfg, err := Load(viper.New(), path)

		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, 8, cfg.PageWorkers)
		assert.Equal(t, 30*time.Minute, cfg.JobTTL)
	})

	t.Run("Should let the environment override defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PDFEXTRACT_WORKER_COUNT", "9")
		t.Setenv("PDFEXTRACT_API_KEY", "secret")

		cfg, err := Load(viper.New(), "")

		require.NoError(t, err)
		assert.Equal(t, 9, cfg.WorkerCount)
		assert.Equal(t, "secret", cfg.APIKey)
	})

	t.Run("Should fail on a missing explicit config file", func(t *testing.T) {
		_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Should repair non-positive sizes", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PDFEXTRACT_PAGE_WORKERS", "0")

		cfg, err := Load(viper.New(), "")

		require.NoError(t, err)
		assert.Equal(t, 1, cfg.PageWorkers)
	})
}

func TestConfig_ValidateServer(t *testing.T) {
	assert.Error(t, Config{}.ValidateServer())
	assert.NoError(t, Config{APIKey: "k"}.ValidateServer())
	assert.Error(t, Config{APIKey: "k", PathstoreURL: "http://ps"}.ValidateServer())
	assert.NoError(t, Config{APIKey: "k", PathstoreURL: "http://ps", PathstoreAPIKey: "p"}.ValidateServer())
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.Level())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "chatty"}.Level())
}

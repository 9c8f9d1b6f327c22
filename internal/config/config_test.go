package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Store.SessionTTL)
	assert.Equal(t, 60.0, cfg.Capacity.MaxPercentage)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, 5, cfg.Search.MaxPerType)
	assert.Equal(t, 120*time.Second, cfg.Generation.DownloadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Storage.DownloadTimeout)
	assert.Equal(t, 10, cfg.Upload.MaxImageMB)
	assert.False(t, cfg.Auth.AdminEnabled())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
capacity:
  max_percentage: 55
storage:
  driver: s3
  s3:
    bucket: rooms
`), 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AWS_REGION", "eu-west-2")
	t.Setenv("REPLICATE_API_TOKEN", "r8_test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 55.0, cfg.Capacity.MaxPercentage)
	assert.Equal(t, "rooms", cfg.Storage.S3.Bucket)
	assert.Equal(t, "eu-west-2", cfg.Storage.S3.Region)
	assert.Equal(t, "r8_test", cfg.Generation.ReplicateToken)
}

func TestValidate(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	base, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"unknown store", func(c *config.Config) { c.Store.Driver = "etcd" }},
		{"redis store without redis", func(c *config.Config) { c.Store.Driver = config.StoreRedis }},
		{"s3 without bucket", func(c *config.Config) { c.Storage.Driver = config.StorageS3 }},
		{"ceiling too high", func(c *config.Config) { c.Capacity.MaxPercentage = 120 }},
		{"admin without secret", func(c *config.Config) { c.Auth.AdminPasswordHash = "$2a$10$x" }},
		{"worker without redis", func(c *config.Config) { c.Worker.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: redis
redis:
  url: redis://cache:6379/2
admin:
  password: super-secret
workflow:
  stats_interval: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.Equal(t, "recruit", cfg.Redis.KeyPrefix)
	assert.Equal(t, 3, cfg.Workflow.MaxUpdateRetries)
	assert.Equal(t, 30*time.Second, cfg.Workflow.StatsInterval)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
admin:
  password: from-file-123
`)
	t.Setenv("RECRUIT_STORAGE_DRIVER", "memory")
	t.Setenv("RECRUIT_WORKFLOW_MAX_UPDATE_RETRIES", "5")
	t.Setenv("ADMIN_PASSWORD", "from-env-456")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Workflow.MaxUpdateRetries)
	assert.Equal(t, "from-env-456", cfg.Admin.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECRUIT_ADMIN_PASSWORD=dotenv-secret\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("RECRUIT_ADMIN_PASSWORD")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.Admin.Password)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Storage:  StorageConfig{Driver: DriverSQLite},
			Database: DatabaseConfig{Path: "data/recruitsys.db"},
			Logger:   LoggerConfig{Format: "json"},
			Workflow: WorkflowConfig{MaxUpdateRetries: 3},
			Admin:    AdminConfig{Password: "password123"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: "storage.driver"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database.path"},
		{name: "redis without url", mutate: func(c *Config) { c.Storage.Driver = DriverRedis }, wantErr: "redis.url"},
		{name: "missing admin password", mutate: func(c *Config) { c.Admin.Password = "" }, wantErr: "admin.password is required"},
		{name: "short admin password", mutate: func(c *Config) { c.Admin.Password = "short" }, wantErr: "at least 8"},
		{name: "zero retries", mutate: func(c *Config) { c.Workflow.MaxUpdateRetries = 0 }, wantErr: "max_update_retries"},
		{name: "bad log format", mutate: func(c *Config) { c.Logger.Format = "xml" }, wantErr: "logger.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToContainerConfig(t *testing.T) {
	cfg := &Config{
		Storage:  StorageConfig{Driver: DriverRedis},
		Redis:    RedisConfig{URL: "redis://cache:6379/1", KeyPrefix: "rs"},
		Workflow: WorkflowConfig{MaxUpdateRetries: 4, StatsInterval: time.Second},
		Admin:    AdminConfig{Password: "password123", BcryptCost: 4},
		Metrics:  MetricsConfig{Enabled: true},
	}

	cc := cfg.ToContainerConfig()
	require.NoError(t, cc.Validate())
	assert.Equal(t, "redis", cc.Storage.Driver)
	assert.Equal(t, "rs", cc.Redis.KeyPrefix)
	assert.Equal(t, 4, cc.Workflow.MaxUpdateRetries)
	assert.Equal(t, 4, cc.Admin.BcryptCost)
	assert.True(t, cc.Metrics.Enabled)
}

package config

import (
	"github.com/Honey822438/RecuirtSys/internal/container"
)

// ToContainerConfig converts the file-based Config into the container's
// configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Storage: container.StorageConfig{
			Driver: c.Storage.Driver,
		},
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Redis: container.RedisConfig{
			URL:          c.Redis.URL,
			KeyPrefix:    c.Redis.KeyPrefix,
			PoolSize:     c.Redis.PoolSize,
			MinIdleConns: c.Redis.MinIdleConns,
			DialTimeout:  c.Redis.DialTimeout,
			ReadTimeout:  c.Redis.ReadTimeout,
			WriteTimeout: c.Redis.WriteTimeout,
		},
		Workflow: container.WorkflowConfig{
			MaxUpdateRetries: c.Workflow.MaxUpdateRetries,
			StatsInterval:    c.Workflow.StatsInterval,
		},
		Admin: container.AdminConfig{
			Password:   c.Admin.Password,
			BcryptCost: c.Admin.BcryptCost,
		},
		Metrics: container.MetricsConfig{
			Enabled: c.Metrics.Enabled,
		},
	}
}

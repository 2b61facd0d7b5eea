// Package container wires the RecruitSys components together and owns their
// lifecycle: ordered start, health reporting and reverse-order shutdown.
package container

import (
	"fmt"
	"time"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds all configuration for the Container.
type Config struct {
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Workflow WorkflowConfig
	Admin    AdminConfig
	Metrics  MetricsConfig
}

// StorageConfig selects the candidate store implementation.
type StorageConfig struct {
	// Driver is one of memory, sqlite or redis
	Driver string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// WorkflowConfig tunes candidate updates.
type WorkflowConfig struct {
	// MaxUpdateRetries bounds reload-and-reapply attempts of field updates
	MaxUpdateRetries int

	// StatsInterval is how often the stats worker refreshes stage gauges
	StatsInterval time.Duration
}

// AdminConfig holds the seeded administrator credentials.
type AdminConfig struct {
	Password string

	// BcryptCost is the work factor for credential hashes; zero means default
	BcryptCost int
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverSQLite},
		Database: DatabaseConfig{
			Path:            "data/recruitsys.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:       "redis://localhost:6379/0",
			KeyPrefix: "recruit",
			PoolSize:  10,
		},
		Workflow: WorkflowConfig{
			MaxUpdateRetries: 3,
			StatsInterval:    time.Minute,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required")
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Admin.Password == "" {
		return fmt.Errorf("admin.password is required")
	}

	return nil
}

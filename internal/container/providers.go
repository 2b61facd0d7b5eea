package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/dispatcher"
	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/application/service"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/metrics"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/memory"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/redisstore"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/repository"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/persistence/sqlite"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/worker"
	"github.com/Honey822438/RecuirtSys/internal/notification"
	"github.com/Honey822438/RecuirtSys/pkg/database"
	"github.com/Honey822438/RecuirtSys/pkg/utils"
)

// StorageBundle holds the repositories of one storage driver.
type StorageBundle struct {
	Driver     string
	Candidates port.CandidateRepository
	Employees  port.EmployeeRepository
	History    port.HistoryRepository
	TxManager  port.TransactionManager

	health func(ctx context.Context) error
	close  func() error
}

// Health checks the backing store
func (b *StorageBundle) Health(ctx context.Context) error {
	if b.health == nil {
		return nil
	}
	return b.health(ctx)
}

// Close releases the backing store
func (b *StorageBundle) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// ProvideStorage opens the store selected by cfg.Storage.Driver. The SQLite
// driver applies pending migrations before returning.
func ProvideStorage(ctx context.Context, cfg *Config, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
		return provideMemory(), nil
	case DriverSQLite:
		return provideSQLite(&cfg.Database, logger)
	case DriverRedis:
		return provideRedis(ctx, &cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func provideMemory() *StorageBundle {
	candidates := memory.NewCandidateStore()
	history := memory.NewHistoryStore()
	return &StorageBundle{
		Driver:     DriverMemory,
		Candidates: candidates,
		Employees:  memory.NewEmployeeStore(),
		History:    history,
		TxManager:  memory.NewTransactionManager(candidates, history),
	}
}

func provideSQLite(cfg *DatabaseConfig, logger *zap.Logger) (*StorageBundle, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &StorageBundle{
		Driver:     DriverSQLite,
		Candidates: repository.NewCandidateRepository(db.DB, logger),
		Employees:  repository.NewEmployeeRepository(db.DB, logger),
		History:    repository.NewHistoryRepository(db.DB, logger),
		TxManager:  sqlite.NewDB(db.DB, logger),
		health:     db.Health,
		close:      db.Close,
	}, nil
}

func provideRedis(ctx context.Context, cfg *RedisConfig) (*StorageBundle, error) {
	client, err := redisstore.New(ctx, redisstore.Options{
		URL:          cfg.URL,
		KeyPrefix:    cfg.KeyPrefix,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &StorageBundle{
		Driver:     DriverRedis,
		Candidates: redisstore.NewCandidateStore(client),
		Employees:  redisstore.NewEmployeeStore(client),
		History:    redisstore.NewHistoryStore(client),
		TxManager:  redisstore.NewTransactionManager(client),
		health:     client.Health,
		close:      client.Close,
	}, nil
}

// ProvideMetrics creates a registry with the runtime collectors and the
// workflow metrics. Both are nil when metrics are disabled.
func ProvideMetrics(cfg *MetricsConfig) (*prometheus.Registry, *metrics.Metrics) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.New(reg)
}

// ProvideDispatcher creates the event dispatcher with the stage notifier subscribed.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewZapAdapter(logger.Named("dispatcher"))))
	stage := notification.NewStageNotifier(notification.NewLogNotifier(logger.Named("notify")), logger)
	stage.Register(d)
	return d
}

// ProvideEngine creates the workflow engine.
func ProvideEngine(storage *StorageBundle, d dispatcher.Dispatcher, m *metrics.Metrics, logger *zap.Logger) workflow.WorkflowEngine {
	opts := []workflow.EngineOption{
		workflow.WithDispatcher(d),
		workflow.WithLogger(logger.Named("workflow")),
	}
	if m != nil {
		opts = append(opts, workflow.WithRecorder(m))
	}
	return workflow.NewEngine(storage.Candidates, storage.History, storage.TxManager, opts...)
}

// ProvideServices creates the application services.
func ProvideServices(cfg *Config, storage *StorageBundle, d dispatcher.Dispatcher, logger *zap.Logger) *ServiceBundle {
	adapter := utils.NewZapAdapter(logger.Named("service"))
	return &ServiceBundle{
		Candidates: service.NewCandidateService(storage.Candidates, storage.History, d, adapter, cfg.Workflow.MaxUpdateRetries),
		Employees:  service.NewEmployeeService(storage.Employees, adapter, cfg.Admin.BcryptCost),
	}
}

// ProvideWorkers creates the worker manager with the stats worker registered.
// A nil gauge is allowed.
func ProvideWorkers(cfg *WorkflowConfig, stats worker.StatsSource, m *metrics.Metrics, logger *zap.Logger) (*worker.Manager, *worker.StatsWorker) {
	manager := worker.NewManager(logger.Named("worker"))

	var gauge worker.StageGauge
	if m != nil {
		gauge = m
	}
	sw := worker.NewStatsWorker(cfg.StatsInterval, stats, gauge, logger.Named("stats"))
	manager.Register(sw)

	return manager, sw
}

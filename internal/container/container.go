package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/dispatcher"
	"github.com/Honey822438/RecuirtSys/internal/application/service"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/metrics"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/report"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/worker"
)

// Container manages all application dependencies and lifecycle.
// Initialization is ordered and teardown runs in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure
	storage  *StorageBundle
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	report   *report.PipelineReport

	// Application
	dispatcher dispatcher.Dispatcher
	workflow   workflow.WorkflowEngine
	services   *ServiceBundle

	// Workers
	workers     *worker.Manager
	statsWorker *worker.StatsWorker

	// Lifecycle
	mu     sync.RWMutex
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Candidates service.CandidateService
	Employees  service.EmployeeService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Storage
// 2. Metrics
// 3. Event dispatcher and workflow engine
// 4. Application services and the seeded admin
// 5. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	var runCtx context.Context
	runCtx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization", zap.String("storage_driver", c.config.Storage.Driver))

	storage, err := ProvideStorage(runCtx, c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.storage = storage
	c.logger.Info("Storage initialized")

	c.registry, c.metrics = ProvideMetrics(&c.config.Metrics)
	c.report = report.NewPipelineReport(c.logger.Named("report"))

	c.dispatcher = ProvideDispatcher(c.logger)
	c.workflow = ProvideEngine(c.storage, c.dispatcher, c.metrics, c.logger)
	c.logger.Info("Dispatcher and workflow engine initialized")

	c.services = ProvideServices(c.config, c.storage, c.dispatcher, c.logger)
	if _, err := c.services.Employees.SeedAdmin(runCtx, c.config.Admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.workers, c.statsWorker = ProvideWorkers(&c.config.Workflow, c.services.Candidates, c.metrics, c.logger)
	if err := c.workers.StartAll(runCtx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.logger.Info("Workers started", zap.Int("count", c.workers.Count()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	// Waits for in-flight async notifications
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.storage != nil {
		if err := c.storage.Close(); err != nil {
			c.logger.Error("Failed to close storage", zap.Error(err))
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		} else {
			c.logger.Info("Storage closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.storage == nil:
		set("storage", false, "not initialized")
	default:
		if err := c.storage.Health(ctx); err != nil {
			set("storage", false, fmt.Sprintf("%s: %v", c.storage.Driver, err))
		} else {
			set("storage", true, c.storage.Driver)
		}
	}

	if c.workers == nil {
		set("workers", false, "not initialized")
	} else {
		set("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.Count()))
	}

	if c.dispatcher == nil {
		set("dispatcher", false, "not initialized")
	} else {
		set("dispatcher", true, "")
	}

	return status
}

// CheckHealth returns an error when any component is unhealthy.
func (c *Container) CheckHealth(ctx context.Context) error {
	status := c.Health(ctx)
	if status.Overall {
		return nil
	}
	for name, comp := range status.Components {
		if !comp.Healthy {
			return fmt.Errorf("%s unhealthy: %s", name, comp.Message)
		}
	}
	return fmt.Errorf("unhealthy")
}

// Storage returns the repositories.
func (c *Container) Storage() *StorageBundle {
	return c.storage
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// WorkflowEngine returns the workflow engine.
func (c *Container) WorkflowEngine() workflow.WorkflowEngine {
	return c.workflow
}

// Services returns the application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Metrics returns the workflow metrics, nil when disabled.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Registry returns the Prometheus registry, nil when metrics are disabled.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Report returns the pipeline workbook writer.
func (c *Container) Report() *report.PipelineReport {
	return c.report
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// StatsWorker returns the background stats worker.
func (c *Container) StatsWorker() *worker.StatsWorker {
	return c.statsWorker
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container configuration.
func (c *Container) Config() *Config {
	return c.config
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/config"
	"github.com/Honey822438/RecuirtSys/internal/container"
	httpapi "github.com/Honey822438/RecuirtSys/internal/interfaces/http"
	"github.com/Honey822438/RecuirtSys/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server exited successfully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting RecruitSys",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("address", cfg.Address()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container close failed", zap.Error(err))
		}
	}()

	deps := httpapi.Dependencies{
		Candidates: c.Services().Candidates,
		Employees:  c.Services().Employees,
		Engine:     c.WorkflowEngine(),
		Report:     c.Report(),
		Metrics:    c.Metrics(),
		Health:     c.CheckHealth,
		Logger:     utils.NewZapAdapter(logger.Named("http")),
	}
	// A nil *Registry must not become a non-nil Gatherer
	if reg := c.Registry(); reg != nil {
		deps.Gatherer = reg
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Mode:         cfg.Server.Mode,
	}, deps)

	return server.Start(ctx)
}

// API server entry point for ProjectPulse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/ProjectPulse/internal/app"
	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/ProjectPulse/internal/interfaces/http"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/handlers"
)

// Version is injected at build time.
var Version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	startupTimeout    = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	migrate := flag.Bool("migrate", false, "apply pending record store migrations on startup")
	flag.Parse()

	if err := run(*configPath, *port, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "pulse-apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, migrate bool) error {
	cfg, watchPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting ProjectPulse API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
		logging.String("source", cfg.Board.Source),
	)

	tel, err := app.NewTelemetry(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	components, err := app.Build(startCtx, cfg, logger, app.Options{
		EventSource:   "pulse-apiserver",
		RunMigrations: migrate && cfg.Board.Source == "postgres",
		Metrics:       tel.Board,
	})
	cancel()
	if err != nil {
		return err
	}
	defer components.Close()

	routerCfg := httpserver.RouterConfig{
		BoardHandler:  handlers.NewBoardHandler(components.Service, logger),
		HealthHandler: handlers.NewHealthHandler(Version, components.Checkers...).OnResult(tel.HealthReporter()),
		Logger:        logger,
		Metrics:       tel.App,
		CORSOrigins:   cfg.Server.CORSOrigins,
		MaxBodySize:   cfg.Server.MaxBodySize,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = tel.Collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	app.WatchLogLevel(watchPath, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}

	logger.Info("server stopped")
	return nil
}

// loadConfig reads path when it exists and falls back to environment-only
// configuration otherwise.  The returned watch path is empty in the fallback
// case.
func loadConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "config file %s not found, using environment\n", path)
		cfg, err := config.LoadFromEnv()
		return cfg, "", err
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

//Personal.AI order the ending

// Package main implements the entry point for the graph explorer service.
// It wires the snapshot store, filter engine, smart-query catalog, and
// query executor behind one HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/prabhakarm7/sn-graph-sub002/api"
	"github.com/prabhakarm7/sn-graph-sub002/catalog"
	"github.com/prabhakarm7/sn-graph-sub002/config"
	"github.com/prabhakarm7/sn-graph-sub002/executor"
	"github.com/prabhakarm7/sn-graph-sub002/filter"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
	"github.com/prabhakarm7/sn-graph-sub002/snapshot"
	"github.com/prabhakarm7/sn-graph-sub002/telemetry"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "graphexplorer"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}
	if cliCfg.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}
	if err := validateFlags(cliCfg); err != nil {
		return err
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return err
	}
	if cliCfg.LogLevel != "" {
		cfg.Logging.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Logging.Format = cliCfg.LogFormat
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		logger.Info("Configuration is valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metric.NewRegistry()

	var source snapshot.Source
	if cfg.Snapshot.DataFile != "" {
		source = snapshot.NewFileSource(cfg.Snapshot.DataFile)
	} else {
		logger.Warn("no snapshot data file configured, serving an empty graph")
		source = snapshot.NewMemorySource(nil)
	}
	store, err := snapshot.NewStore(snapshot.Deps{
		Source:   source,
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	engine := filter.NewEngine(filter.Deps{Registry: registry, Logger: logger})

	manager, err := buildCatalog(ctx, cfg, registry, logger)
	if err != nil {
		return err
	}
	defer func() { _ = manager.Close() }()

	conn, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
	}

	backend, err := buildBackend(cfg, conn, logger)
	if err != nil {
		return err
	}

	var sink telemetry.Sink = telemetry.Noop{}
	if cfg.Telemetry.Enabled {
		sink, err = telemetry.NewNATSSink(telemetry.NATSDeps{
			Conn:    conn,
			Subject: cfg.Telemetry.Subject,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
	}

	exec, err := executor.New(executor.Deps{
		Catalog:   manager,
		Backend:   backend,
		Switcher:  newModeTracker(logger),
		Telemetry: sink,
		Registry:  registry,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Deps{
		Store:    store,
		Engine:   engine,
		Catalog:  manager,
		Executor: exec,
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics.Addr, registry, logger)
	}

	return serveAPI(ctx, cfg.Server.Addr, server, logger)
}

// buildCatalog assembles the catalog manager: remote-primary with builtin
// fallback when a remote endpoint is configured, builtin-only otherwise.
func buildCatalog(ctx context.Context, cfg *config.Config,
	registry *metric.Registry, logger *slog.Logger,
) (*catalog.Manager, error) {
	var source catalog.Source
	var admin catalog.Admin
	if cfg.Catalog.Remote.BaseURL != "" {
		remote, err := catalog.NewRemoteSource(cfg.Catalog.Remote, logger)
		if err != nil {
			return nil, err
		}
		source = catalog.NewTieredSource(remote, logger)
		admin = remote
	} else {
		logger.Info("no remote catalog configured, serving the builtin catalog")
		source = catalog.NewStaticSource(catalog.BuiltinCatalog())
	}

	manager, err := catalog.NewManager(ctx, catalog.Deps{
		Source:   source,
		Admin:    admin,
		TTL:      cfg.Catalog.TTL,
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Catalog.WatchURL != "" {
		watcher, err := catalog.NewWatcher(cfg.Catalog.WatchURL, manager, logger)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("catalog change feed stopped", "error", err)
			}
		}()
	}

	return manager, nil
}

// connectNATS dials the broker when either the backend transport or the
// telemetry sink needs it.
func connectNATS(cfg *config.Config, logger *slog.Logger) (*nats.Conn, error) {
	if cfg.Backend.Transport != config.TransportNATS && !cfg.Telemetry.Enabled {
		return nil, nil
	}

	conn, err := nats.Connect(strings.Join(cfg.Backend.NATS.URLs, ","),
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to NATS", "urls", cfg.Backend.NATS.URLs)
	return conn, nil
}

func buildBackend(cfg *config.Config, conn *nats.Conn, logger *slog.Logger) (executor.QueryService, error) {
	if cfg.Backend.Transport == config.TransportNATS {
		return executor.NewNATSBackend(conn, cfg.Backend.NATS.Request, logger)
	}
	return executor.NewHTTPBackend(cfg.Backend.HTTP, logger)
}

func serveMetrics(ctx context.Context, addr string, registry *metric.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("metrics server stopped", "error", err)
	}
}

func serveAPI(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("explorer listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// modeTracker holds the service-side view of the explorer's operating mode.
// It stands in for the UI toggle when the explorer runs headless.
type modeTracker struct {
	mode   atomic.Value
	logger *slog.Logger
}

func newModeTracker(logger *slog.Logger) *modeTracker {
	mt := &modeTracker{logger: logger}
	mt.mode.Store(catalog.ModeStandard)
	return mt
}

// SwitchMode implements executor.ModeSwitcher.
func (mt *modeTracker) SwitchMode(_ context.Context, mode catalog.Mode) error {
	previous := mt.mode.Swap(mode)
	if previous != mode {
		mt.logger.Info("operating mode switched", "from", previous, "to", mode)
	}
	return nil
}

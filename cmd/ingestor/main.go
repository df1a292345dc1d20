package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rgarg/angelone-data/internal/config"
	"github.com/rgarg/angelone-data/internal/connection"
	"github.com/rgarg/angelone-data/internal/database"
	"github.com/rgarg/angelone-data/internal/metrics"
	"github.com/rgarg/angelone-data/internal/pipeline"
	"github.com/rgarg/angelone-data/internal/session"
	"github.com/rgarg/angelone-data/internal/sink"
	"github.com/rgarg/angelone-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ingestor.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingestor",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"auth_url", cfg.Angel.AuthURL,
		"ws_url", cfg.Angel.WSURL,
	)

	metrics.Register()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	writer := sink.NewWriter(pool, logger)

	authClient := session.NewClient(
		cfg.Angel.AuthURL,
		session.CredentialsFromConfig(cfg.Angel),
		session.WithLogger(logger),
		session.WithTimeout(30*time.Second),
	)

	supCfg := connection.Config{
		URL:                cfg.Angel.WSURL,
		APIKey:             cfg.Angel.APIKey,
		ClientCode:         cfg.Angel.ClientCode,
		ReadTimeout:        cfg.Stream.ReadTimeout,
		PongTimeout:        cfg.Stream.PongTimeout,
		WriteTimeout:       cfg.Stream.WriteTimeout,
		ReconnectBaseDelay: cfg.Stream.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Stream.ReconnectMaxDelay,
		MaxAttempts:        cfg.Stream.MaxAttempts,
	}
	supervisor := connection.NewSupervisor(supCfg, cfg.Subscription, writer, logger)

	ingest := pipeline.New(authClient, supervisor, writer, cfg.Pipeline.Cooldown, logger)

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(cfg.Metrics.Path, writer, supervisor),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return ingest.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	logger.Info("ingestor running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("ingestor exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestor stopped")
}

// createHealthHandler creates the HTTP handler for health checks and
// Prometheus metrics.
func createHealthHandler(metricsPath string, writer *sink.Writer, supervisor *connection.Supervisor) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := writer.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["timescaledb"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["timescaledb"] = "connected"
		}

		// Check stream state
		stats := supervisor.Stats()
		health.Components["stream"] = map[string]interface{}{
			"state":      stats.State.String(),
			"frames":     stats.Frames,
			"records":    stats.Records,
			"reconnects": stats.Reconnects,
		}
		if stats.State != connection.StateStreaming {
			health.Status = "degraded"
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}

// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"atlas-oracle/internal/api"
	"atlas-oracle/internal/common/camunda"
	"atlas-oracle/internal/common/config"
	"atlas-oracle/internal/common/logger"
	"atlas-oracle/internal/common/observability"
	"atlas-oracle/internal/oracle"
	selectoraclecard "atlas-oracle/internal/workers/oracle/select-oracle-card"
)

const shutdownTimeout = 30 * time.Second

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		bootLog.Fatal("logger build failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	selector, err := selectoraclecard.LoadSelector(cfg.Oracle)
	if err != nil {
		zapLog.Fatal("card catalog failed", zap.Error(err))
	}
	logCatalog(zapLog, selector.Catalog(), cfg.Oracle.CatalogPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCfg := selectoraclecard.FromWorkerConfig(config.GetWorkerConfig(cfg, selectoraclecard.TaskType))
	handler, err := selectoraclecard.NewHandler(selectoraclecard.HandlerOptions{
		Config:        workerCfg,
		Selector:      selector,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create select-oracle-card handler", zap.Error(err))
	}
	httpHandler, err := selectoraclecard.NewHandler(selectoraclecard.HandlerOptions{
		Config:        workerCfg,
		Selector:      selector,
		Observability: obs,
		Logger:        log.WithFields(map[string]interface{}{"component": "api"}),
		Source:        "http",
	})
	if err != nil {
		zapLog.Fatal("failed to create HTTP draw handler", zap.Error(err))
	}

	// --- Zeebe worker (optional) ---
	var (
		zeebe  *camunda.Client
		worker *camunda.CamundaWorker
		ready  api.ReadyFunc
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			RetryConfig: &camunda.RetryConfig{
				MaxRetries: 10,
				BaseDelay:  2 * time.Second,
				MaxDelay:   30 * time.Second,
			},
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully", zap.String("broker", cfg.Camunda.BrokerAddress))
		ready = zeebe.HealthCheck

		if workerCfg.Enabled {
			worker = camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
				TaskType:      selectoraclecard.TaskType,
				Name:          cfg.App.Name,
				MaxJobsActive: workerCfg.MaxJobsActive,
				Timeout:       config.GetDuration(cfg.Camunda.Timeout),
			}, handler, zapLog)
		} else {
			zapLog.Info("worker disabled", zap.String("taskType", selectoraclecard.TaskType))
		}
	} else {
		zapLog.Info("camunda disabled, serving HTTP only")
	}

	// --- HTTP API, health and metrics ---
	server, err := api.NewServer(api.Options{
		Config:        cfg.Server,
		Oracle:        httpHandler,
		Catalog:       selector.Catalog(),
		Observability: obs,
		Logger:        log,
		Ready:         ready,
	})
	if err != nil {
		zapLog.Fatal("http server setup failed", zap.Error(err))
	}

	if err := server.Run(ctx, shutdownTimeout); err != nil {
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	// --- Graceful Shutdown ---
	zapLog.Info("Shutdown signal received, stopping workers...")
	if worker != nil {
		worker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// logCatalog reports the loaded catalog and warns about absent canonical cards.
func logCatalog(zapLog *zap.Logger, catalog *oracle.Catalog, path string) {
	zapLog.Info("card catalog loaded",
		zap.Int("cards", catalog.Len()),
		zap.String("path", path),
	)
	if missing := catalog.MissingCanonical(); len(missing) > 0 {
		zapLog.Warn("card catalog is missing canonical cards, draws for them fall back",
			zap.Strings("missing", missing),
		)
	}
}

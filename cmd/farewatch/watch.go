package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/infrastructure/config"
	"farewatch-service/internal/interface/provider"
	"farewatch-service/internal/interface/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the generate/execute/refresh cycle continuously",
		Long: `Run the full fare-tracking cycle on a fixed interval: generate a
batch for the configured route over the coming horizon, save it,
execute it, and refresh the analysis views. A failed cycle backs off
and retries; the process only stops on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			log.Info("Starting Farewatch", "version", cfg.AppVersion)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}

			m := metrics.NewMetrics("farewatch")
			executor, err := buildExecutor(ctx, db, cfg, log, cfg.RequestDelay, m)
			if err != nil {
				return err
			}

			scheduler := usecase.NewScheduler(
				usecase.NewTaskGenerator(log),
				repository.NewFileTaskBatchRepository(log),
				executor,
				log,
				schedulerConfig(cfg),
			)
			go scheduler.Run(ctx)

			// Metrics and health endpoints
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("Healthy"))
			})

			server := &http.Server{
				Addr:    ":" + cfg.MetricsPort,
				Handler: mux,
			}

			go func() {
				log.Info("Starting HTTP server", "port", cfg.MetricsPort)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("HTTP server error", "error", err)
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigChan
			log.Info("Received signal", "signal", sig)

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", "error", err)
			}

			cancel()
			log.Info("Farewatch stopped")
			return nil
		},
	}

	return cmd
}

// buildExecutor wires the full lookup -> ingest -> refresh pipeline on
// one shared database handle
func buildExecutor(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Logger, delay time.Duration, m *metrics.Metrics) (*usecase.BatchExecutor, error) {
	observations := repository.NewGormObservationRepository(db)
	if err := observations.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	fareClient := provider.NewFareClient(cfg.FareAPIURL, delay, log)
	ingestor := usecase.NewIngestor(observations, log)
	refresher := usecase.NewViewRefresher(repository.NewGormAnalysisViewRepository(db), log, m)

	return usecase.NewBatchExecutor(fareClient, ingestor, refresher, log, m), nil
}

func schedulerConfig(cfg *config.Config) usecase.SchedulerConfig {
	return usecase.SchedulerConfig{
		FromAirport: cfg.WatchFromAirport,
		ToAirport:   cfg.WatchToAirport,
		OutboundDay: cfg.WatchOutboundDay,
		ReturnDay:   cfg.WatchReturnDay,
		HorizonDays: cfg.WatchHorizonDays,
		Options:     entity.DefaultSearchOptions(),
		Interval:    cfg.WatchInterval,
		Backoff:     cfg.WatchBackoff,
		Delay:       cfg.RequestDelay,
		BatchDir:    cfg.BatchDir,
	}
}

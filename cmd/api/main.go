package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/family-budget/internal/advisor"
	"github.com/dvloznov/family-budget/internal/api"
	"github.com/dvloznov/family-budget/internal/api/handlers"
	"github.com/dvloznov/family-budget/internal/blob/backend"
	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/config"
	"github.com/dvloznov/family-budget/internal/jobs"
	"github.com/dvloznov/family-budget/internal/jobs/inmemory"
	"github.com/dvloznov/family-budget/internal/logger"
	"github.com/dvloznov/family-budget/internal/store"
)

func main() {
	// Parse command-line flags
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file (or set CONFIG_FILE env)")
		port       = flag.String("port", "", "HTTP server port (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	blobs, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer blobs.Close()

	records, err := store.New(ctx, blobs, log)
	if err != nil {
		return err
	}

	goals := budget.Goals{
		EmergencyFundMonths: cfg.Goals.EmergencyFundMonths,
		EmergencyFundFloor:  decimal.NewFromFloat(cfg.Goals.EmergencyFundFloor),
	}

	deps := api.Deps{
		Store: records,
		Goals: goals,
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.Jobs.QueueSize, cfg.Jobs.Workers, jobStore)
	deps.JobStore = jobStore

	workerCtx, cancelWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWorker()

	var jobHandler jobs.JobHandler
	if cfg.AdviceEnabled() {
		gen, err := advisor.NewGemini(ctx, advisor.GeminiConfig{
			APIKey:        cfg.Gemini.APIKey,
			Model:         cfg.Gemini.Model,
			Timeout:       time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
			RatePerMinute: cfg.Gemini.RatePerMinute,
		})
		if err != nil {
			return err
		}

		opts := advisor.DefaultOptions()
		opts.AdviceTemperature = cfg.Gemini.Temperature
		adv := advisor.New(gen, opts, log)

		deps.Advisor = adv
		deps.Publisher = jobQueue
		jobHandler = handlers.ReceiptJobHandler(records, adv, logger.Component(log, "worker"))
	} else {
		log.Warn().Msg("No GEMINI_API_KEY configured - advice, onboarding and receipt scanning are disabled")
	}

	if jobHandler != nil {
		log.Info().Int("workers", cfg.Jobs.Workers).Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(deps, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Gemini.TimeoutSeconds+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Backend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}

		// Stop job queue and wait for in-flight jobs
		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping job queue")
		}
		cancelWorker()
		return nil
	})

	return g.Wait()
}

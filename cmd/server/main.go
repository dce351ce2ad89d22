package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/income-usd/internal/application/service"
	"github.com/damon-houk/income-usd/internal/config"
	domainservice "github.com/damon-houk/income-usd/internal/domain/service"
	"github.com/damon-houk/income-usd/internal/infrastructure/cache"
	"github.com/damon-houk/income-usd/internal/infrastructure/db"
	"github.com/damon-houk/income-usd/internal/infrastructure/handler"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/infrastructure/source"
	"github.com/damon-houk/income-usd/web"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := flag.String("env", ".env", "optional env file loaded before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.GetDefaultLogger().Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel)).WithField("app", "income-usd")
	logger.SetDefaultLogger(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log.Info("Server stopped", nil)
}

// run owns every resource opened after configuration so that deferred
// cleanup still happens when startup fails
func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Starting income conversion server", map[string]interface{}{
		"port":       cfg.Port,
		"data_dir":   cfg.DataDir,
		"rates_file": cfg.RatesFile,
		"start_year": cfg.StartYear,
		"end_year":   cfg.EndYear,
	})

	// Setup BadgerDB
	badgerDB, err := db.Open(cfg.DataDir, cfg.InMemory())
	if err != nil {
		return fmt.Errorf("failed to open rate store: %w", err)
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed the store from the configured source
	var rateSource domainservice.RateSource = source.NewStaticRateSource()
	if cfg.RatesFile != "" {
		rateSource = source.NewCSVRateSource(cfg.RatesFile, cfg.RatesEncoding, log)
	}

	rateRepo := db.NewBadgerRateRepository(badgerDB)
	if _, err := db.SeedFromSource(ctx, rateRepo, rateSource, log); err != nil {
		return fmt.Errorf("failed to seed known rates: %w", err)
	}

	// Build the table once, before serving
	rateTable := service.NewRateTableService(rateRepo, cfg.StartYear, cfg.EndYear, log)
	if err := rateTable.Load(ctx); err != nil {
		return fmt.Errorf("failed to build rate table: %w", err)
	}

	conversionService := service.NewConversionService(rateTable, log)

	pageHandler, err := handler.NewPageHandler(web.TemplatesFS, rateTable, cache.NewPageCache(cfg.PageCacheTTL), cfg.SiteTitle, log)
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	ratesHandler := handler.NewRatesHandler(rateTable, conversionService, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(ratesHandler, pageHandler, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Package db internal/infrastructure/db/seed.go
package db

import (
	"context"
	"fmt"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/domain/repository"
	"github.com/damon-houk/income-usd/internal/domain/service"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
)

// SeedRates makes rates the stored set of known rates. Every entry is
// validated before anything is written, and years no longer supplied are
// removed so they are interpolated again. It returns the number of years stored.
func SeedRates(ctx context.Context, repo repository.RateRepository, rates []entity.RateEntry, log logger.Logger) (int, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	years := make(map[int]struct{}, len(rates))
	for i := range rates {
		if err := rates[i].Validate(); err != nil {
			return 0, fmt.Errorf("invalid seed rate: %w", err)
		}
		years[rates[i].Year] = struct{}{}
	}

	removed, err := repo.ReplaceRates(ctx, rates)
	if err != nil {
		return 0, err
	}

	log.Info("Seeded known rates", map[string]interface{}{
		"supplied": len(rates),
		"stored":   len(years),
		"removed":  removed,
	})

	return len(years), nil
}

// SeedFromSource loads the known rates from src and seeds them into repo
func SeedFromSource(ctx context.Context, repo repository.RateRepository, src service.RateSource, log logger.Logger) (int, error) {
	rates, err := src.LoadRates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load known rates: %w", err)
	}

	return SeedRates(ctx, repo, rates, log)
}

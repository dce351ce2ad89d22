// Package repository internal/domain/repository/rate_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/income-usd/internal/domain/entity"
)

// RateRepository defines the interface for known exchange rate storage
type RateRepository interface {
	// ListKnownRates returns every stored rate ordered by year
	ListKnownRates(ctx context.Context) ([]entity.RateEntry, error)

	// ReplaceRates makes rates the complete stored set in one transaction.
	// Stored years missing from rates are removed, and the number removed is returned.
	ReplaceRates(ctx context.Context, rates []entity.RateEntry) (int, error)
}

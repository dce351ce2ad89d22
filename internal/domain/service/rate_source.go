package service

import (
	"context"

	"github.com/damon-houk/income-usd/internal/domain/entity"
)

// RateSource defines where the known yearly rates are loaded from
type RateSource interface {
	// LoadRates returns the known rates in no particular order
	LoadRates(ctx context.Context) ([]entity.RateEntry, error)
}

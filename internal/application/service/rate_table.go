// Package service internal/application/service/rate_table.go
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/domain/repository"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// ratePlaces is the number of decimals every expanded rate is rounded to
const ratePlaces = 4

// ExpandRates builds a dense table with one entry per year in [startYear, endYear].
// Known years keep their rate, gap years between two known years are linearly
// interpolated and gap years outside the known range take the nearest known rate.
// With no known rates every year is 0.
func ExpandRates(known []entity.RateEntry, startYear, endYear int) []entity.RateEntry {
	if endYear < startYear {
		return []entity.RateEntry{}
	}

	sorted := make([]entity.RateEntry, len(known))
	copy(sorted, known)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	lookup := make(map[int]float64, len(sorted))
	for _, e := range sorted {
		lookup[e.Year] = e.Rate
	}

	table := make([]entity.RateEntry, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		if rate, ok := lookup[year]; ok {
			table = append(table, entity.RateEntry{Year: year, Rate: roundRate(decimal.NewFromFloat(rate))})
			continue
		}

		prev, hasPrev := nearestBelow(sorted, year)
		next, hasNext := nearestAbove(sorted, year)

		var rate float64
		switch {
		case hasPrev && hasNext && prev.Year != next.Year:
			rate = interpolate(prev, next, year)
		case hasPrev:
			rate = prev.Rate
		case hasNext:
			rate = next.Rate
		}

		table = append(table, entity.RateEntry{Year: year, Rate: rate})
	}

	return table
}

// interpolate computes the linear interpolation between prev and next at year
func interpolate(prev, next entity.RateEntry, year int) float64 {
	p := decimal.NewFromFloat(prev.Rate)
	n := decimal.NewFromFloat(next.Rate)
	offset := decimal.NewFromInt(int64(year - prev.Year))
	span := decimal.NewFromInt(int64(next.Year - prev.Year))

	return roundRate(p.Add(n.Sub(p).Mul(offset).Div(span)))
}

func roundRate(d decimal.Decimal) float64 {
	return d.Round(ratePlaces).InexactFloat64()
}

// nearestBelow scans forward for the last known year before year
func nearestBelow(sorted []entity.RateEntry, year int) (entity.RateEntry, bool) {
	var found entity.RateEntry
	ok := false
	for _, e := range sorted {
		if e.Year >= year {
			break
		}
		found, ok = e, true
	}
	return found, ok
}

// nearestAbove scans backward for the first known year after year
func nearestAbove(sorted []entity.RateEntry, year int) (entity.RateEntry, bool) {
	var found entity.RateEntry
	ok := false
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Year <= year {
			break
		}
		found, ok = sorted[i], true
	}
	return found, ok
}

// RateTableService owns the expanded rate table. It is built once by Load and
// is read-only afterwards, so it is safe to share between requests.
type RateTableService struct {
	repo      repository.RateRepository
	logger    logger.Logger
	startYear int
	endYear   int

	table   []entity.RateEntry
	indexed []entity.IndexedRate
	byYear  map[int]float64
}

// NewRateTableService creates a new rate table service for [startYear, endYear]
func NewRateTableService(repo repository.RateRepository, startYear, endYear int, log logger.Logger) *RateTableService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateTableService{
		repo:      repo,
		logger:    log,
		startYear: startYear,
		endYear:   endYear,
	}
}

// Load reads the known rates from the repository and expands them
func (s *RateTableService) Load(ctx context.Context) error {
	known, err := s.repo.ListKnownRates(ctx)
	if err != nil {
		s.logger.Error("Failed to list known rates", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to list known rates: %w", err)
	}

	if len(known) == 0 {
		s.logger.Warn("No known rates stored, table will be all zero", map[string]interface{}{
			"start_year": s.startYear,
			"end_year":   s.endYear,
		})
	}

	table := ExpandRates(known, s.startYear, s.endYear)

	indexed := make([]entity.IndexedRate, len(table))
	byYear := make(map[int]float64, len(table))
	for i, e := range table {
		indexed[i] = entity.IndexedRate{Index: i, Year: e.Year, Rate: e.Rate}
		byYear[e.Year] = e.Rate
	}

	s.table = table
	s.indexed = indexed
	s.byYear = byYear

	s.logger.Info("Rate table built", map[string]interface{}{
		"known_rates": len(known),
		"years":       len(table),
		"start_year":  s.startYear,
		"end_year":    s.endYear,
	})

	return nil
}

// Table returns a copy of the expanded table
func (s *RateTableService) Table() []entity.RateEntry {
	out := make([]entity.RateEntry, len(s.table))
	copy(out, s.table)
	return out
}

// Indexed returns a copy of the expanded table annotated with row positions
func (s *RateTableService) Indexed() []entity.IndexedRate {
	out := make([]entity.IndexedRate, len(s.indexed))
	copy(out, s.indexed)
	return out
}

// RateFor returns the expanded rate for year
func (s *RateTableService) RateFor(year int) (float64, error) {
	rate, ok := s.byYear[year]
	if !ok {
		return 0, fmt.Errorf("no rate for %d: %w", year, entity.ErrYearOutOfRange)
	}
	return rate, nil
}

// Range returns the inclusive year range of the table
func (s *RateTableService) Range() (int, int) {
	return s.startYear, s.endYear
}

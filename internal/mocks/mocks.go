// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockRateRepository mocks the RateRepository interface
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) ListKnownRates(ctx context.Context) ([]entity.RateEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RateEntry), args.Error(1)
}

func (m *MockRateRepository) ReplaceRates(ctx context.Context, rates []entity.RateEntry) (int, error) {
	args := m.Called(ctx, rates)
	return args.Int(0), args.Error(1)
}

// MockRateSource mocks the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) LoadRates(ctx context.Context) ([]entity.RateEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RateEntry), args.Error(1)
}

// MockRateLookup mocks the RateLookup interface used by the conversion service
type MockRateLookup struct {
	mock.Mock
}

func (m *MockRateLookup) RateFor(year int) (float64, error) {
	args := m.Called(year)
	return args.Get(0).(float64), args.Error(1)
}

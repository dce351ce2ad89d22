// internal/application/service/rate_table_test.go
package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rateAt(t *testing.T, table []entity.RateEntry, year int) float64 {
	t.Helper()
	for _, e := range table {
		if e.Year == year {
			return e.Rate
		}
	}
	t.Fatalf("year %d missing from table", year)
	return 0
}

func TestExpandRates(t *testing.T) {
	known := entity.KnownRates()
	table := ExpandRates(known, entity.StartYear, entity.EndYear)

	t.Run("Covers every year once, in order", func(t *testing.T) {
		require.Len(t, table, entity.EndYear-entity.StartYear+1)
		for i, e := range table {
			assert.Equal(t, entity.StartYear+i, e.Year)
		}
	})

	t.Run("Known years keep their rate", func(t *testing.T) {
		for _, k := range known {
			assert.Equal(t, k.Rate, rateAt(t, table, k.Year), "year %d", k.Year)
		}
	})

	t.Run("Single-year gap", func(t *testing.T) {
		// 238.5358 + (144.6375 - 238.5358) * 1/2 = 191.58665
		assert.Equal(t, 191.5867, rateAt(t, table, 1986))
	})

	t.Run("Multi-year gap", func(t *testing.T) {
		// 1995 = 94.0596, 2000 = 107.7655
		assert.Equal(t, 96.8008, rateAt(t, table, 1996))
		assert.Equal(t, 99.5420, rateAt(t, table, 1997))
		assert.Equal(t, 102.2831, rateAt(t, table, 1998))
		assert.Equal(t, 105.0243, rateAt(t, table, 1999))
	})

	t.Run("Gap years lie between their bounds", func(t *testing.T) {
		for i := 1; i < len(known); i++ {
			lo, hi := known[i-1], known[i]
			for year := lo.Year + 1; year < hi.Year; year++ {
				r := rateAt(t, table, year)
				assert.GreaterOrEqual(t, r, min(lo.Rate, hi.Rate), "year %d", year)
				assert.LessOrEqual(t, r, max(lo.Rate, hi.Rate), "year %d", year)
			}
		}
	})
}

func TestExpandRates_Extrapolation(t *testing.T) {
	known := []entity.RateEntry{
		{Year: 2000, Rate: 100},
		{Year: 2002, Rate: 120},
	}

	table := ExpandRates(known, 1998, 2004)

	require.Len(t, table, 7)
	assert.Equal(t, 100.0, rateAt(t, table, 1998))
	assert.Equal(t, 100.0, rateAt(t, table, 1999))
	assert.Equal(t, 110.0, rateAt(t, table, 2001))
	assert.Equal(t, 120.0, rateAt(t, table, 2003))
	assert.Equal(t, 120.0, rateAt(t, table, 2004))
}

func TestExpandRates_UnsortedInputIsNotMutated(t *testing.T) {
	known := []entity.RateEntry{
		{Year: 2002, Rate: 120},
		{Year: 2000, Rate: 100},
	}

	table := ExpandRates(known, 2000, 2002)

	assert.Equal(t, []entity.RateEntry{
		{Year: 2000, Rate: 100},
		{Year: 2001, Rate: 110},
		{Year: 2002, Rate: 120},
	}, table)
	assert.Equal(t, 2002, known[0].Year)
}

func TestExpandRates_RoundsToFourDecimals(t *testing.T) {
	known := []entity.RateEntry{
		{Year: 2000, Rate: 100.123456},
		{Year: 2003, Rate: 101},
	}

	table := ExpandRates(known, 2000, 2003)

	assert.Equal(t, 100.1235, table[0].Rate)
	// 100.123456 + 0.876544/3 = 100.415637...
	assert.Equal(t, 100.4156, table[1].Rate)
	assert.Equal(t, 101.0, table[3].Rate)
}

func TestExpandRates_EmptyInput(t *testing.T) {
	table := ExpandRates(nil, 2000, 2002)

	require.Len(t, table, 3)
	for _, e := range table {
		assert.Equal(t, 0.0, e.Rate)
	}
}

func TestExpandRates_InvertedRange(t *testing.T) {
	assert.Empty(t, ExpandRates(entity.KnownRates(), 2025, 1980))
}

func TestRateTableService(t *testing.T) {
	ctx := context.Background()
	log := logger.NewJSONLogger(io.Discard, logger.InfoLevel)

	t.Run("Load builds the table", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListKnownRates", mock.Anything).Return([]entity.RateEntry{
			{Year: 2000, Rate: 100},
			{Year: 2002, Rate: 120},
		}, nil).Once()

		svc := NewRateTableService(repo, 2000, 2002, log)
		require.NoError(t, svc.Load(ctx))

		assert.Len(t, svc.Table(), 3)
		assert.Equal(t, []entity.IndexedRate{
			{Index: 0, Year: 2000, Rate: 100},
			{Index: 1, Year: 2001, Rate: 110},
			{Index: 2, Year: 2002, Rate: 120},
		}, svc.Indexed())

		rate, err := svc.RateFor(2001)
		assert.NoError(t, err)
		assert.Equal(t, 110.0, rate)

		_, err = svc.RateFor(1999)
		assert.ErrorIs(t, err, entity.ErrYearOutOfRange)

		start, end := svc.Range()
		assert.Equal(t, 2000, start)
		assert.Equal(t, 2002, end)

		repo.AssertExpectations(t)
	})

	t.Run("Table returns a copy", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListKnownRates", mock.Anything).Return([]entity.RateEntry{{Year: 2000, Rate: 100}}, nil).Once()

		svc := NewRateTableService(repo, 2000, 2000, log)
		require.NoError(t, svc.Load(ctx))

		table := svc.Table()
		table[0].Rate = 1
		assert.Equal(t, 100.0, svc.Table()[0].Rate)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(mocks.MockRateRepository)
		repo.On("ListKnownRates", mock.Anything).Return(nil, errors.New("disk gone")).Once()

		svc := NewRateTableService(repo, 2000, 2002, log)
		err := svc.Load(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list known rates")
		assert.Empty(t, svc.Table())
		repo.AssertExpectations(t)
	})
}

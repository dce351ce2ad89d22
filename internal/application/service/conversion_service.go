// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/infrastructure/middleware"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown in place of a USD amount when no value was entered
const Placeholder = "-"

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// RateLookup resolves the expanded rate for a year
type RateLookup interface {
	RateFor(year int) (float64, error)
}

// ConversionService converts yearly man-yen income into USD
type ConversionService struct {
	rates  RateLookup
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates RateLookup, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		logger: log,
	}
}

// ConvertIncome converts manYen for year into USD. A non-finite or non-positive
// amount is not an error: it yields a zero conversion displayed as Placeholder.
func (s *ConversionService) ConvertIncome(ctx context.Context, year int, manYen float64) (*entity.Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	rate, err := s.rates.RateFor(year)
	if err != nil {
		s.logger.Warn("No rate for requested year", map[string]interface{}{
			"request_id": requestID,
			"year":       year,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	conv := &entity.Conversion{
		Year:    year,
		Rate:    rate,
		Display: Placeholder,
	}

	if !isPositive(manYen) || rate <= 0 {
		s.logger.Debug("Amount has no value, resetting", map[string]interface{}{
			"request_id": requestID,
			"year":       year,
		})
		return conv, nil
	}

	conv.ManYen = manYen
	conv.Yen = manYen * entity.YenPerMan
	conv.USD = conv.Yen / rate
	conv.Display = FormatUSD(conv.USD)

	s.logger.Debug("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"year":       year,
		"man_yen":    manYen,
		"rate":       rate,
		"usd":        conv.USD,
	})

	return conv, nil
}

// ParseManYen parses a user-entered man-yen amount. Anything that is not a
// finite positive number is reported as no value.
func ParseManYen(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !isPositive(v) {
		return 0, false
	}
	return v, true
}

// FormatUSD renders usd as whole US dollars with thousands separators, e.g. $33,333.
// Non-finite and non-positive values render as Placeholder.
func FormatUSD(usd float64) string {
	if !isPositive(usd) {
		return Placeholder
	}
	return usdPrinter.Sprintf("$%v", number.Decimal(math.Round(usd), number.MaxFractionDigits(0)))
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

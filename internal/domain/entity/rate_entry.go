package entity

import (
	"errors"
	"fmt"
	"math"
)

// Default year range covered by the expanded rate table
const (
	StartYear = 1980
	EndYear   = 2025
)

var (
	// ErrInvalidRate is returned when a rate is zero or negative
	ErrInvalidRate = errors.New("rate must be a positive value")

	// ErrYearOutOfRange is returned when a year falls outside the table range
	ErrYearOutOfRange = errors.New("year outside the supported range")
)

// RateEntry is the average JPY-per-USD exchange rate for one year
type RateEntry struct {
	Year int     `json:"year"`
	Rate float64 `json:"rate"`
}

// Validate ensures the entry has a positive rate. Years outside the table
// range are allowed, they still act as interpolation neighbours.
func (e *RateEntry) Validate() error {
	if e.Rate <= 0 || math.IsNaN(e.Rate) || math.IsInf(e.Rate, 0) {
		return fmt.Errorf("year %d: %w", e.Year, ErrInvalidRate)
	}

	return nil
}

// IndexedRate is a row of the expanded table annotated with its position
type IndexedRate struct {
	Index int     `json:"index"`
	Year  int     `json:"year"`
	Rate  float64 `json:"rate"`
}

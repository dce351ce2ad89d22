// Package source internal/infrastructure/source/rate_source.go
package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Supported CSV encodings
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// ErrUnknownEncoding is returned for an encoding name with no decoder
var ErrUnknownEncoding = errors.New("unknown encoding")

// ParseEncoding maps an encoding name or alias to EncodingUTF8 or
// EncodingShiftJIS. An empty name means EncodingUTF8.
func ParseEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		return EncodingUTF8, nil
	case EncodingShiftJIS, "shift-jis", "sjis":
		return EncodingShiftJIS, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownEncoding)
}

// StaticRateSource serves the built-in known rates
type StaticRateSource struct{}

// NewStaticRateSource creates a source backed by entity.KnownRates
func NewStaticRateSource() *StaticRateSource {
	return &StaticRateSource{}
}

// LoadRates returns the built-in known rates
func (s *StaticRateSource) LoadRates(ctx context.Context) ([]entity.RateEntry, error) {
	return entity.KnownRates(), nil
}

// CSVRateSource reads known rates from a "year,rate" CSV file
type CSVRateSource struct {
	path     string
	encoding string
	logger   logger.Logger
}

// NewCSVRateSource creates a new CSV rate source
func NewCSVRateSource(path, encoding string, log logger.Logger) *CSVRateSource {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	// An unknown name is kept as given so LoadRates reports it
	if canonical, err := ParseEncoding(encoding); err == nil {
		encoding = canonical
	}

	return &CSVRateSource{
		path:     path,
		encoding: encoding,
		logger:   log,
	}
}

// LoadRates opens the file and parses it
func (s *CSVRateSource) LoadRates(ctx context.Context) ([]entity.RateEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rates file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("Error closing rates file", map[string]interface{}{
				"path":  s.path,
				"error": closeErr.Error(),
			})
		}
	}()

	rates, err := ParseRatesCSV(ctx, f, s.encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.logger.Info("Loaded rates file", map[string]interface{}{
		"path":     s.path,
		"encoding": s.encoding,
		"rates":    len(rates),
	})

	return rates, nil
}

// ParseRatesCSV parses "year,rate" rows from r. A non-numeric first row is
// treated as a header, blank lines and lines starting with # are skipped.
// Errors name the offending line.
func ParseRatesCSV(ctx context.Context, r io.Reader, encoding string) ([]entity.RateEntry, error) {
	enc, err := ParseEncoding(encoding)
	if err != nil {
		return nil, err
	}
	if enc == EncodingShiftJIS {
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	}

	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rates []entity.RateEntry
	seen := make(map[int]int)
	first := true

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected year and rate, got %d field(s)", line, len(record))
		}

		yearField := strings.TrimPrefix(strings.TrimSpace(record[0]), "\ufeff")
		year, yearErr := strconv.Atoi(yearField)
		if yearErr != nil && first {
			first = false
			continue
		}
		first = false
		if yearErr != nil {
			return nil, fmt.Errorf("line %d: invalid year %q", line, record[0])
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate %q", line, record[1])
		}
		if rate <= 0 {
			return nil, fmt.Errorf("line %d: %w", line, entity.ErrInvalidRate)
		}

		if prev, dup := seen[year]; dup {
			return nil, fmt.Errorf("line %d: year %d already given on line %d", line, year, prev)
		}
		seen[year] = line

		rates = append(rates, entity.RateEntry{Year: year, Rate: rate})
	}

	if len(rates) == 0 {
		return nil, errors.New("no rates found")
	}

	return rates, nil
}

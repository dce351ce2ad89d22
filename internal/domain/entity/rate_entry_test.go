package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   RateEntry
		wantErr bool
	}{
		{"Valid", RateEntry{Year: 1986, Rate: 191.5867}, false},
		{"Year before table range", RateEntry{Year: 1970, Rate: 360}, false},
		{"Year after table range", RateEntry{Year: 2030, Rate: 140}, false},
		{"Zero rate", RateEntry{Year: 2000, Rate: 0}, true},
		{"Negative rate", RateEntry{Year: 2000, Rate: -1}, true},
		{"NaN rate", RateEntry{Year: 2000, Rate: math.NaN()}, true},
		{"Infinite rate", RateEntry{Year: 2000, Rate: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKnownRatesAreValidAndOrdered(t *testing.T) {
	known := KnownRates()
	for i := range known {
		assert.NoError(t, known[i].Validate())
		if i > 0 {
			assert.Less(t, known[i-1].Year, known[i].Year)
		}
	}
}

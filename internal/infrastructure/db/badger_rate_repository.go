package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const ratePrefix = "rate:"

// Open opens the badger store in dir. An empty dir or inMemory opens a
// store that lives only as long as the process.
func Open(dir string, inMemory bool) (*badger.DB, error) {
	var opts badger.Options
	if inMemory || dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// BadgerRateRepository implements the rate repository interface using BadgerDB
type BadgerRateRepository struct {
	db *badger.DB
}

// NewBadgerRateRepository creates a new BadgerDB rate repository
func NewBadgerRateRepository(db *badger.DB) *BadgerRateRepository {
	return &BadgerRateRepository{db: db}
}

func rateKey(year int) []byte {
	return []byte(ratePrefix + strconv.Itoa(year))
}

// ListKnownRates returns every stored rate ordered by year
func (r *BadgerRateRepository) ListKnownRates(ctx context.Context) ([]entity.RateEntry, error) {
	var rates []entity.RateEntry

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ratePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var e entity.RateEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			rates = append(rates, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}

	// Keys sort lexically, which only matches year order for same-width years
	sort.Slice(rates, func(i, j int) bool { return rates[i].Year < rates[j].Year })

	return rates, nil
}

// ReplaceRates writes rates and deletes every other stored year in a single
// transaction, so readers never see a mix of the old and new set
func (r *BadgerRateRepository) ReplaceRates(ctx context.Context, rates []entity.RateEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	values := make(map[int][]byte, len(rates))
	for i := range rates {
		data, err := json.Marshal(&rates[i])
		if err != nil {
			return 0, fmt.Errorf("failed to marshal rate: %w", err)
		}
		// Later entries for the same year win
		values[rates[i].Year] = data
	}

	removed := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(ratePrefix)
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			year, err := strconv.Atoi(strings.TrimPrefix(string(key), ratePrefix))
			if err == nil {
				if _, keep := values[year]; keep {
					continue
				}
			}
			stale = append(stale, key)
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(stale)

		for year, data := range values {
			if err := txn.Set(rateKey(year), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace rates: %w", err)
	}

	return removed, nil
}

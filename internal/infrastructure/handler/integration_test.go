// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/income-usd/internal/application/service"
	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/cache"
	"github.com/damon-houk/income-usd/internal/infrastructure/db"
	"github.com/damon-houk/income-usd/internal/infrastructure/handler"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a test server backed by an in-memory rate store
// seeded with the built-in rates
func setupTestServer(t *testing.T, title string) (*httptest.Server, *cache.PageCache) {
	t.Helper()

	ctx := context.Background()
	log := logger.NewJSONLogger(io.Discard, logger.InfoLevel)

	badgerDB, err := db.Open("", true)
	require.NoError(t, err)

	repo := db.NewBadgerRateRepository(badgerDB)
	_, err = db.SeedRates(ctx, repo, entity.KnownRates(), log)
	require.NoError(t, err)

	rateTable := service.NewRateTableService(repo, entity.StartYear, entity.EndYear, log)
	require.NoError(t, rateTable.Load(ctx))

	pageCache := cache.NewPageCache(time.Hour)
	pageHandler, err := handler.NewPageHandler(web.TemplatesFS, rateTable, pageCache, title, log)
	require.NoError(t, err)

	conversionService := service.NewConversionService(rateTable, log)
	ratesHandler := handler.NewRatesHandler(rateTable, conversionService, log)

	server := httptest.NewServer(handler.NewRouter(ratesHandler, pageHandler, log))

	t.Cleanup(func() {
		server.Close()
		badgerDB.Close()
	})

	return server, pageCache
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, pageCache := setupTestServer(t, "Income in USD")

	t.Run("Renders every year", func(t *testing.T) {
		resp, body := get(t, server.URL+"/")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "cdn.jsdelivr.net")

		assert.Contains(t, body, "<title>Income in USD</title>")
		assert.Equal(t, entity.EndYear-entity.StartYear+1, strings.Count(body, "data-year="))
		assert.Contains(t, body, `data-year="1980"`)
		assert.Contains(t, body, `data-year="2025"`)
		assert.Contains(t, body, `data-rate="191.5867"`)
		assert.Contains(t, body, `data-usd="1986">-</td>`)
		assert.Contains(t, body, "chart.js")
	})

	t.Run("Embeds the table for the script", func(t *testing.T) {
		_, body := get(t, server.URL+"/")

		assert.Contains(t, body, `{"index":6,"year":1986,"rate":191.5867}`)
		assert.Regexp(t, `const yenPerMan = \s*10000\s*;`, body)
		assert.Contains(t, body, `const placeholder = "-";`)
	})

	t.Run("Is cached after first render", func(t *testing.T) {
		cached, ok := pageCache.Get("Income in USD")
		require.True(t, ok)

		_, first := get(t, server.URL+"/")
		_, second := get(t, server.URL+"/")
		assert.Equal(t, first, second)
		assert.Equal(t, string(cached), first)
	})

	t.Run("Catch-all route serves the page", func(t *testing.T) {
		resp, body := get(t, server.URL+"/some/deep/path")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "<title>Income in USD</title>")
	})

	t.Run("HEAD has no body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodHead, server.URL+"/", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("POST is not allowed", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/", "text/plain", strings.NewReader("x"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestPageTitleOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, _ := setupTestServer(t, "年収 <USD>")

	_, body := get(t, server.URL+"/")

	assert.Contains(t, body, "<title>年収 &lt;USD&gt;</title>")
	assert.Contains(t, body, "<h1>年収 &lt;USD&gt;</h1>")
	assert.NotContains(t, body, "年収 <USD>")
}

func TestRatesAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, _ := setupTestServer(t, "Income in USD")

	t.Run("List rates", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/rates")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var rates []handler.RateResponse
		require.NoError(t, json.Unmarshal([]byte(body), &rates))
		require.Len(t, rates, entity.EndYear-entity.StartYear+1)

		for i, r := range rates {
			assert.Equal(t, i, r.Index)
			assert.Equal(t, entity.StartYear+i, r.Year)
			assert.Greater(t, r.Rate, 0.0)
		}
		assert.Equal(t, 191.5867, rates[6].Rate)
		assert.Equal(t, 238.5358, rates[5].Rate)
	})

	t.Run("Health", func(t *testing.T) {
		resp, body := get(t, server.URL+"/healthz")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health handler.HealthResponse
		require.NoError(t, json.Unmarshal([]byte(body), &health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, 46, health.Years)
	})

	t.Run("Unknown API path", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/nope")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errResp handler.ErrorResponse
		require.NoError(t, json.Unmarshal([]byte(body), &errResp))
		assert.Equal(t, "Not found", errResp.Error)
		assert.NotEmpty(t, errResp.RequestID)
	})
}

func TestConvertAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, _ := setupTestServer(t, "Income in USD")

	convert := func(t *testing.T, query string) (int, handler.ConversionResponse, handler.ErrorResponse) {
		t.Helper()
		resp, body := get(t, server.URL+"/api/convert?"+query)

		var conv handler.ConversionResponse
		var errResp handler.ErrorResponse
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.Unmarshal([]byte(body), &conv))
		} else {
			require.NoError(t, json.Unmarshal([]byte(body), &errResp))
		}
		return resp.StatusCode, conv, errResp
	}

	t.Run("Converts income", func(t *testing.T) {
		status, conv, _ := convert(t, "year=2024&amount=500")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 2024, conv.Year)
		assert.Equal(t, 500.0, conv.ManYen)
		assert.Equal(t, 5000000.0, conv.Yen)
		assert.Equal(t, 151.3663, conv.Rate)
		assert.InDelta(t, 33032.45, conv.USD, 0.01)
		assert.Equal(t, "$33,032", conv.Display)
	})

	t.Run("Interpolated year", func(t *testing.T) {
		status, conv, _ := convert(t, "year=1986&amount=300")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 191.5867, conv.Rate)
		assert.InDelta(t, 3000000/191.5867, conv.USD, 1e-6)
	})

	for _, amount := range []string{"0", "-5", "abc", ""} {
		t.Run(fmt.Sprintf("No value for amount %q", amount), func(t *testing.T) {
			status, conv, _ := convert(t, "year=2000&amount="+amount)

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, 0.0, conv.USD)
			assert.Equal(t, "-", conv.Display)
		})
	}

	t.Run("Missing year", func(t *testing.T) {
		status, _, errResp := convert(t, "amount=500")

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Missing year parameter", errResp.Error)
	})

	t.Run("Non-integer year", func(t *testing.T) {
		status, _, errResp := convert(t, "year=nineteen&amount=500")

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid year parameter", errResp.Error)
	})

	t.Run("Year outside table", func(t *testing.T) {
		status, _, errResp := convert(t, "year=1970&amount=500")

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Year not supported", errResp.Error)
		assert.Contains(t, errResp.Description, "1980 to 2025")
	})
}

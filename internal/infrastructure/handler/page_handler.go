// Package handler internal/infrastructure/handler/page_handler.go
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/damon-houk/income-usd/internal/application/service"
	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/cache"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const pageTemplate = "index.html"

// RateTable is the read-only view of the expanded rate table the page needs
type RateTable interface {
	Indexed() []entity.IndexedRate
	Range() (int, int)
}

// pageData is the view model handed to the page template
type pageData struct {
	Title       string
	StartYear   int
	EndYear     int
	Rates       []entity.IndexedRate
	YenPerMan   int
	Placeholder string
}

// PageHandler renders the income conversion page
type PageHandler struct {
	templates *template.Template
	rates     RateTable
	cache     *cache.PageCache
	title     string
	logger    logger.Logger
}

// NewPageHandler parses the page template from templates and creates a page handler
func NewPageHandler(templates fs.FS, rates RateTable, pageCache *cache.PageCache, title string, log logger.Logger) (*PageHandler, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	t, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &PageHandler{
		templates: t,
		rates:     rates,
		cache:     pageCache,
		title:     title,
		logger:    log,
	}, nil
}

// Render executes the page template into a byte slice
func (h *PageHandler) Render() ([]byte, error) {
	start, end := h.rates.Range()

	data := pageData{
		Title:       h.title,
		StartYear:   start,
		EndYear:     end,
		Rates:       h.rates.Indexed(),
		YenPerMan:   entity.YenPerMan,
		Placeholder: service.Placeholder,
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, pageTemplate, data); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", pageTemplate, err)
	}

	return buf.Bytes(), nil
}

// ServePage serves the rendered page, rendering it on a cache miss
func (h *PageHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, ok := h.cache.Get(h.title)
	if !ok {
		rendered, err := h.Render()
		if err != nil {
			h.logger.Error("Page render failed", map[string]interface{}{
				"request_id": requestID,
				"template":   pageTemplate,
				"error":      err.Error(),
			})
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}

		h.cache.Put(h.title, rendered)
		body = rendered

		h.logger.Debug("Page rendered", map[string]interface{}{
			"request_id": requestID,
			"bytes":      len(rendered),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("Failed to write page", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// RegisterRoutes registers the page on "/" and as a catch-all. It must be
// registered after every other route.
func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.ServePage).Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix("/").HandlerFunc(h.ServePage).Methods(http.MethodGet, http.MethodHead)

	h.logger.Info("Page routes registered", map[string]interface{}{
		"routes": []string{
			"GET /",
			"GET /{path...}",
		},
	})
}

// Package handler internal/infrastructure/handler/rates_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/damon-houk/income-usd/internal/application/service"
	"github.com/damon-houk/income-usd/internal/domain/entity"
	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RatesHandler serves the expanded rate table and single conversions as JSON
type RatesHandler struct {
	rates      RateTable
	conversion *service.ConversionService
	logger     logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(rates RateTable, conversion *service.ConversionService, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesHandler{
		rates:      rates,
		conversion: conversion,
		logger:     log,
	}
}

// ListRates returns the expanded rate table
func (h *RatesHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	indexed := h.rates.Indexed()
	resp := make([]RateResponse, len(indexed))
	for i, e := range indexed {
		resp[i] = RateResponse{Index: e.Index, Year: e.Year, Rate: e.Rate}
	}

	sendJSON(w, h.logger, resp, http.StatusOK, requestID)
}

// Convert converts one year's man-yen amount into USD. The amount follows the
// page's rules: anything non-numeric or non-positive converts to zero.
func (h *RatesHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	rawYear := strings.TrimSpace(query.Get("year"))
	if rawYear == "" {
		sendErrorResponse(w, h.logger, "Missing year parameter",
			"The 'year' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		h.logger.Warn("Invalid year parameter", map[string]interface{}{
			"request_id": requestID,
			"year":       rawYear,
		})
		sendErrorResponse(w, h.logger, "Invalid year parameter",
			"The 'year' query parameter must be an integer", http.StatusBadRequest, requestID)
		return
	}

	amount, _ := service.ParseManYen(query.Get("amount"))

	conv, err := h.conversion.ConvertIncome(r.Context(), year, amount)
	if err != nil {
		if errors.Is(err, entity.ErrYearOutOfRange) {
			start, end := h.rates.Range()
			sendErrorResponse(w, h.logger, "Year not supported",
				"Rates are available from "+strconv.Itoa(start)+" to "+strconv.Itoa(end), http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error in conversion handler", map[string]interface{}{
			"request_id": requestID,
			"year":       year,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, h.logger, ConversionResponse{
		Year:    conv.Year,
		ManYen:  conv.ManYen,
		Yen:     conv.Yen,
		Rate:    conv.Rate,
		USD:     conv.USD,
		Display: conv.Display,
	}, http.StatusOK, requestID)
}

// Health reports that the service is up and how many years the table covers
func (h *RatesHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, HealthResponse{
		Status: "ok",
		Years:  len(h.rates.Indexed()),
	}, http.StatusOK, middleware.GetRequestID(r.Context()))
}

// apiNotFound keeps unknown /api paths from falling through to the page
func (h *RatesHandler) apiNotFound(w http.ResponseWriter, r *http.Request) {
	sendErrorResponse(w, h.logger, "Not found",
		"No API endpoint at "+r.URL.Path, http.StatusNotFound, middleware.GetRequestID(r.Context()))
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/rates", h.ListRates).Methods(http.MethodGet)
	router.HandleFunc("/api/convert", h.Convert).Methods(http.MethodGet)
	router.PathPrefix("/api/").HandlerFunc(h.apiNotFound)

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"GET /healthz",
			"GET /api/rates",
			"GET /api/convert",
		},
	})
}

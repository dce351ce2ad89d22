package handler

import (
	"net/http"

	"github.com/damon-houk/income-usd/internal/infrastructure/logger"
	"github.com/damon-houk/income-usd/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires the API routes ahead of the catch-all page and wraps the
// router with the request ID, logging, recovery and security header middleware.
// The chain wraps the router itself rather than using router.Use, so responses
// mux produces without a matched route (405) pass through it too.
func NewRouter(rates *RatesHandler, page *PageHandler, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	rates.RegisterRoutes(router)
	page.RegisterRoutes(router)

	chain := []mux.MiddlewareFunc{
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.RecoveryMiddleware(log),
		middleware.SecurityHeadersMiddleware(middleware.DefaultHeadersConfig()),
	}

	var h http.Handler = router
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}

	return h
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jwhan/trademate/internal/api/handlers"
	"github.com/jwhan/trademate/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	brokerHandler *handlers.BrokerHandler,
	portfolioHandler *handlers.PortfolioHandler,
	tradingHandler *handlers.TradingHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Broker endpoints
	api.HandleFunc("/kis/token", brokerHandler.IssueToken).Methods("POST")
	api.HandleFunc("/quotes/daily", brokerHandler.GetDailyQuotes).Methods("GET")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/weights", portfolioHandler.ComputeWeights).Methods("POST")
	api.HandleFunc("/holdings", portfolioHandler.GetHoldings).Methods("GET")
	api.HandleFunc("/report", portfolioHandler.GenerateReport).Methods("POST")

	// Trading endpoints
	api.HandleFunc("/orders/preview", tradingHandler.PreviewOrders).Methods("POST")
	api.HandleFunc("/orders/execute", tradingHandler.ExecuteOrders).Methods("POST")
	api.HandleFunc("/scenario/preview", tradingHandler.PreviewScenario).Methods("POST")
	api.HandleFunc("/scenario/execute", tradingHandler.ExecuteScenario).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "trademate-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aurevia/walletsync/internal/transport/httpapi/handler"
	"github.com/aurevia/walletsync/internal/transport/httpapi/middleware"
	"github.com/aurevia/walletsync/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	HealthHandler      *handler.HealthHandler
	SessionHandler     *handler.SessionHandler
	BalanceHandler     *handler.BalanceHandler
	TransactionHandler *handler.TransactionHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes (require JWT authentication)
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTMiddleware == nil {
			return
		}
		r.Group(func(r chi.Router) {
			r.Use(cfg.JWTMiddleware)

			// Wallet session routes
			if cfg.SessionHandler != nil {
				r.Get("/session", cfg.SessionHandler.GetSession)
				r.Post("/session/connect", cfg.SessionHandler.Connect)
				r.Post("/session/disconnect", cfg.SessionHandler.Disconnect)
				r.Post("/session/network", cfg.SessionHandler.SwitchNetwork)
				r.Post("/session/error/clear", cfg.SessionHandler.ClearError)
			}

			// Balance routes
			if cfg.BalanceHandler != nil {
				r.Get("/balances", cfg.BalanceHandler.GetBalances)
				r.Post("/balances/refresh", cfg.BalanceHandler.Refresh)
			}

			// Transaction history routes
			if cfg.TransactionHandler != nil {
				r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
				r.Get("/transactions/export", cfg.TransactionHandler.ExportTransactions)
			}
		})
	})

	return r
}

package rest

import (
	"net/http"

	"shoplist-backend/application/commands/bus"
	querybus "shoplist-backend/application/queries/bus"
	"shoplist-backend/infrastructure/config"
	"shoplist-backend/interfaces/http/rest/handlers"
	"shoplist-backend/interfaces/http/rest/middleware"
	pkgerrors "shoplist-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment()),
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Unknown methods on known routes answer 405, not 404
	router.MethodNotAllowed(rt.methodNotAllowed)

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Item endpoints
	router.Route("/items", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))

		itemHandler := handlers.NewItemHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
		r.Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
		r.Put("/", itemHandler.UpdateChecked)
		r.Delete("/", itemHandler.ClearChecked)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// methodNotAllowed rejects HTTP methods outside the supported set
func (rt *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	rt.errors.HandleStatus(w, req, http.StatusMethodNotAllowed, "Method not allowed: "+req.Method)
}

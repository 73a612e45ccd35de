// Package http exposes the record services as a JSON API with a common
// response envelope.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"finbook/internal/log"
	"finbook/internal/service"
)

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wires the entity handlers into a chi router.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

func NewServer(
	opts Options,
	users *service.UserService,
	incomes *service.IncomeService,
	expenses *service.ExpenseService,
	budgets *service.BudgetService,
	logger *log.Logger,
) *Server {
	logger = logger.WithComponent(log.ComponentHTTP)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondSuccess(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", (&userHandler{users: users}).register)
		api.Route("/incomes", (&incomeHandler{incomes: incomes}).register)
		api.Route("/expenses", (&expenseHandler{expenses: expenses}).register)
		api.Route("/budgets", (&budgetHandler{budgets: budgets}).register)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		logger: logger,
	}
}

// Handler returns the underlying router, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", log.FieldAddr, s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

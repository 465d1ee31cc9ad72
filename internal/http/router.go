package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"moneyger/internal/auth"
	accountHandler "moneyger/internal/http/account"
	analyticsHandler "moneyger/internal/http/analytics"
	budgetHandler "moneyger/internal/http/budget"
	categoryHandler "moneyger/internal/http/category"
	goalHandler "moneyger/internal/http/goal"
	transactionHandler "moneyger/internal/http/transaction"
)

func New(
	authn *auth.Middleware,
	accountsV1 *accountHandler.Handler,
	categoriesV1 *categoryHandler.Handler,
	transactionsV1 *transactionHandler.Handler,
	budgetsV1 *budgetHandler.Handler,
	goalsV1 *goalHandler.Handler,
	analyticsV1 *analyticsHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authn.Authenticate)

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			budgetsV1.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			goalsV1.Routes(r)
		})

		r.Route("/analytics", analyticsV1.Routes)
	})

	return router
}

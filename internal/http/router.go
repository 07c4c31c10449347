package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/khatapp/khata/internal/http/auth"
	"github.com/khatapp/khata/internal/http/backup"
	"github.com/khatapp/khata/internal/http/customer"
	"github.com/khatapp/khata/internal/http/report"
	"github.com/khatapp/khata/internal/http/transaction"
)

func New(
	authV1 *auth.Handler,
	customersV1 *customer.Handler,
	transactionsV1 *transaction.Handler,
	reportsV1 *report.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/customers", customersV1.Routes)

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		reportsV1.Routes(r)

		r.Route("/backup", backupV1.Routes)
	})

	return router
}

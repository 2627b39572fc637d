// internal/handler/router.go
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/unclebandit/customer-records/internal/controller"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter wires every API route behind request logging, panic recovery
// and CORS.
func NewRouter(customers *controller.CustomerController, addresses *controller.AddressController, db Pinger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}).Handler)

	r.Get("/healthz", health(db))

	r.Route("/api", func(r chi.Router) {
		// Customer routes
		r.Post("/customers", customers.CreateCustomer)
		r.Get("/customers", customers.ListCustomers)
		r.Get("/customers/{id}", customers.GetCustomer)
		r.Put("/customers/{id}", customers.UpdateCustomer)
		r.Delete("/customers/{id}", customers.DeleteCustomer)

		// Address routes
		r.Post("/customers/{id}/addresses", addresses.CreateAddress)
		r.Get("/customers/{id}/addresses", addresses.ListAddresses)
		r.Get("/addresses/{addressId}", addresses.GetAddress)
		r.Put("/addresses/{addressId}", addresses.UpdateAddress)
		r.Delete("/addresses/{addressId}", addresses.DeleteAddress)
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/payment-relay/checkout"
	"github.com/marcelsud/payment-relay/payment"
	"github.com/marcelsud/payment-relay/webhook"
	"github.com/rs/zerolog"
)

// Services groups what the router dispatches to; Session and Metrics are optional
type Services struct {
	Webhook webhook.UseCase
	Payment payment.UseCase
	Session checkout.UseCase
	Metrics http.Handler
}

// Handlers sets up the relay API routes
func Handlers(ctx context.Context, logger zerolog.Logger, services Services, timeout time.Duration) *chi.Mux {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if services.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", services.Metrics)
	}

	r.Method(http.MethodPost, "/webhook", postWebhook(services.Webhook))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/get-order-ref", getOrderRef(services.Payment))
		r.Method(http.MethodGet, "/recent-payments", getRecentPayments(services.Payment))
		if services.Session != nil {
			r.Method(http.MethodPost, "/create-payment-session", postPaymentSession(services.Session))
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

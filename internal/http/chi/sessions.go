package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/payment-relay/checkout"
)

type sessionErrorResponse struct {
	Error   string          `json:"error"`
	Status  interface{}     `json:"status"`
	Details json.RawMessage `json:"details,omitempty"`
}

// postPaymentSession handles POST /api/create-payment-session
func postPaymentSession(sessionService checkout.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req checkout.SessionRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
			return
		}

		session, err := sessionService.CreateSession(r.Context(), req)
		if err != nil {
			var apiErr *checkout.APIError
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "At least one item must be in the cart"})
			case errors.Is(err, checkout.ErrInvalidAmount):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Amount must be greater than zero"})
			case errors.As(err, &apiErr):
				writeJSON(w, apiErr.Status, sessionErrorResponse{
					Error:   apiErr.ErrorType,
					Status:  apiErr.Status,
					Details: apiErr.Details,
				})
			default:
				logger := httplog.LogEntry(r.Context())
				logger.Error().Err(err).Msg("creating payment session")
				writeJSON(w, http.StatusInternalServerError, sessionErrorResponse{Error: err.Error(), Status: "error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(session.Body)
	})
}

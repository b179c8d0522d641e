package chi

import (
	"errors"
	"net/http"
	"time"

	"github.com/marcelsud/payment-relay/payment"
)

/* HTTP layer DTOs for recorded payments
 * Separate from domain entities to avoid leaking internal structure
 */
type paymentResponse struct {
	ID              string    `json:"id"`
	PaymentID       string    `json:"payment_id"`
	EventID         string    `json:"event_id"`
	OrderRef        *string   `json:"order_ref"`
	EventType       string    `json:"event_type"`
	Status          string    `json:"status"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Email           string    `json:"email"`
	ProcessedOn     string    `json:"processed_on"`
	ResponseCode    string    `json:"response_code"`
	ResponseSummary string    `json:"response_summary"`
	Deliveries      int       `json:"deliveries"`
	CreatedAt       time.Time `json:"created_at"`
}

type recentPaymentsResponse struct {
	Payments []paymentResponse `json:"payments"`
}

type orderRefResponse struct {
	OrderRef string `json:"order_ref"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// getOrderRef handles GET /api/get-order-ref?payment_id=...
func getOrderRef(paymentService payment.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paymentID := r.URL.Query().Get("payment_id")
		if paymentID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing payment_id"})
			return
		}

		ref, err := paymentService.OrderRef(r.Context(), paymentID)
		if errors.Is(err, payment.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Order reference not found"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, orderRefResponse{OrderRef: ref})
	})
}

// getRecentPayments handles GET /api/recent-payments
func getRecentPayments(paymentService payment.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := paymentService.Recent(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		result := recentPaymentsResponse{Payments: make([]paymentResponse, 0, len(all))}
		for _, rec := range all {
			ev := rec.Event
			result.Payments = append(result.Payments, paymentResponse{
				ID:              rec.ID,
				PaymentID:       ev.PaymentID,
				EventID:         ev.EventID,
				OrderRef:        ev.OrderRef,
				EventType:       ev.EventType,
				Status:          ev.Status.String(),
				Amount:          ev.Amount,
				Currency:        ev.Currency,
				Email:           ev.Email,
				ProcessedOn:     ev.ProcessedOn,
				ResponseCode:    ev.ResponseCode,
				ResponseSummary: ev.ResponseSummary,
				Deliveries:      rec.Deliveries,
				CreatedAt:       rec.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, result)
	})
}

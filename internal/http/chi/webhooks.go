package chi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/payment-relay/webhook"
)

// maxWebhookBodyBytes bounds how much of a delivery is read
const maxWebhookBodyBytes = 1 << 20

/* HTTP layer DTOs for the webhook endpoint
 * The processor only looks at the status code; the bodies are for humans
 */
type webhookResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// postWebhook handles POST /webhook
func postWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAt := time.Now().UTC()
		defer r.Body.Close()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
		if err != nil {
			err = fmt.Errorf("reading request body: %w", err)
			logger := httplog.LogEntry(r.Context())
			logger.Error().Err(err).Msg("processing webhook")
			writeJSON(w, http.StatusInternalServerError, webhookResponse{
				Message: "Failed to process webhook",
				Error:   err.Error(),
			})
			return
		}

		result := webhookService.Process(r.Context(), webhook.NewDelivery(body, r.Header, receivedAt))
		httplog.LogEntrySetField(r.Context(), "webhook_state", result.Label())

		switch result.State {
		case webhook.Accepted:
			writeJSON(w, http.StatusOK, webhookResponse{Message: "Webhook processed successfully"})
		case webhook.Unauthorized:
			writeJSON(w, http.StatusForbidden, webhookResponse{Message: "Unauthorized request"})
		default:
			reason := "unknown error"
			if result.Err != nil {
				reason = result.Err.Error()
			}
			writeJSON(w, http.StatusInternalServerError, webhookResponse{
				Message: "Failed to process webhook",
				Error:   reason,
			})
		}
	})
}

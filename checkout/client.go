package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the Checkout.com sandbox API
const DefaultAPIURL = "https://api.sandbox.checkout.com"

const maxResponseBytes = 1 << 20

/* APIError is a non-201 answer from the processor
 * Details holds the processor's response body as JSON
 */
type APIError struct {
	Status    int
	ErrorType string
	Details   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("checkout API returned %d: %s", e.Status, e.ErrorType)
}

// Client talks to the Checkout.com payment sessions API
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewClient creates a new Checkout.com client
func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePaymentSession posts payload and returns the processor's JSON response on 201
func (c *Client) CreatePaymentSession(ctx context.Context, payload PaymentSessionPayload) (json.RawMessage, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("CHECKOUT_SECRET_KEY not set")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payment session: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment-sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling checkout API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading checkout response: %w", err)
	}

	if resp.StatusCode == http.StatusCreated {
		if !json.Valid(respBody) {
			return nil, fmt.Errorf("checkout API returned invalid JSON")
		}
		return json.RawMessage(respBody), nil
	}

	return nil, newAPIError(resp.StatusCode, respBody)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, ErrorType: "Unknown error occurred"}

	var parsed struct {
		ErrorType string `json:"error_type"`
	}
	if json.Valid(body) {
		apiErr.Details = json.RawMessage(body)
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorType != "" {
			apiErr.ErrorType = parsed.ErrorType
		}
		return apiErr
	}

	details, _ := json.Marshal(string(body))
	apiErr.Details = details
	return apiErr
}

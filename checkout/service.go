package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Session is a created payment session
type Session struct {
	OrderRef string
	Body     json.RawMessage // processor response, passed through to the storefront
}

/* UseCase defines the payment session operations
 * Uses pointer semantics for Service as it's an API, not data
 */
type UseCase interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

// API is the processor call CreateSession depends on
type API interface {
	CreatePaymentSession(ctx context.Context, payload PaymentSessionPayload) (json.RawMessage, error)
}

type Service struct {
	api      API
	settings Settings
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new session service with dependency injection
func NewService(api API, settings Settings, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSession validates the cart, tags it with a fresh order reference and opens a hosted session
func (s *Service) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	orderRef := GenerateOrderReference(s.now())

	payload, err := BuildPayload(req, s.settings, orderRef)
	if err != nil {
		s.logger.Warn().Err(err).Int("items", len(req.Items)).Msg("rejecting payment session request")
		return Session{}, err
	}

	s.logger.Debug().
		Str("order_ref", orderRef).
		Int64("amount", payload.Amount).
		Str("currency", payload.Currency).
		Msg("creating payment session")

	body, err := s.api.CreatePaymentSession(ctx, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("order_ref", orderRef).Msg("creating payment session")
		return Session{}, fmt.Errorf("creating payment session: %w", err)
	}

	s.logger.Info().Str("order_ref", orderRef).Msg("payment session created")
	return Session{OrderRef: orderRef, Body: body}, nil
}

package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/payment-relay/payment"
	"github.com/marcelsud/payment-relay/webhook/payload"
	"github.com/marcelsud/payment-relay/webhook/signature"
	"github.com/rs/zerolog"
)

/* Service represents the webhook ingestion logic
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the business operations for inbound webhooks
type UseCase interface {
	Process(ctx context.Context, delivery Delivery) Result
}

// Result is the terminal state of a delivery and what recording produced
type Result struct {
	State   State
	Outcome payment.Outcome
	Err     error
}

// Label returns the metrics label of the result: unauthorized, stored, duplicate or failed
func (r Result) Label() string {
	switch r.State {
	case Unauthorized:
		return Unauthorized.String()
	case Accepted:
		return r.Outcome.Kind.String()
	default:
		return Failed.String()
	}
}

type Service struct {
	verifier Verifier
	recorder Recorder
	meter    Meter
	header   string
	logger   zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithSignatureHeader sets the header carrying the body signature
func WithSignatureHeader(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.header = name
		}
	}
}

// WithMeter sets the meter that counts processed deliveries
func WithMeter(m Meter) Option {
	return func(s *Service) {
		if m != nil {
			s.meter = m
		}
	}
}

// NewService creates a new webhook service with dependency injection
func NewService(verifier Verifier, recorder Recorder, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		verifier: verifier,
		recorder: recorder,
		meter:    noopMeter{},
		header:   signature.HeaderName,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process runs one delivery through verification, normalization and recording
func (s *Service) Process(ctx context.Context, delivery Delivery) (result Result) {
	state := Received

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("processing webhook in state %s: %v", state, r)
			s.logger.Error().Err(err).Msg("recovered from panic")
			result = Result{State: Failed, Outcome: payment.Outcome{Kind: payment.Failed, Err: err}, Err: err}
		}
		s.meter.RecordDelivery(ctx, result.Label())
	}()

	state = Verifying
	if !s.verifier.Verify(delivery.Body, delivery.Header(s.header)) {
		return Result{State: Unauthorized}
	}

	state = Normalizing
	tree, err := payload.Decode(delivery.Body)
	if err != nil {
		s.logger.Warn().Err(err).Int("body_bytes", len(delivery.Body)).Msg("payload is not a JSON object, using defaults")
		tree = payload.Tree{}
	}
	event := payment.Normalize(tree)

	state = Recording
	outcome := s.recorder.Record(ctx, event)
	if !outcome.Accepted() {
		if outcome.Err == nil {
			outcome.Err = errors.New("event was not recorded")
		}
		s.logger.Error().Err(outcome.Err).
			Str("event_id", event.EventID).
			Str("event_type", event.EventType).
			Msg("recording webhook")
		return Result{State: Failed, Outcome: outcome, Err: outcome.Err}
	}

	s.logger.Info().
		Str("event_id", event.EventID).
		Str("payment_id", event.PaymentID).
		Str("event_type", event.EventType).
		Str("outcome", outcome.Kind.String()).
		Msg("webhook processed")

	return Result{State: Accepted, Outcome: outcome}
}

package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RecentLimit is how many records the recent payments view returns
const RecentLimit = 20

/* UseCase defines the business operations over recorded payments
 * Uses pointer semantics for Service as it's an API, not data
 */
type UseCase interface {
	Record(ctx context.Context, event Event) Outcome
	OrderRef(ctx context.Context, paymentID string) (string, error)
	Recent(ctx context.Context) ([]Record, error)
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
}

type Service struct {
	Repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new payment service with dependency injection
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		Repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record persists event exactly once per event id and reports what happened
func (s *Service) Record(ctx context.Context, event Event) Outcome {
	if err := event.Status.Validate(); err != nil {
		return failedOutcome("validating status: %w", err)
	}

	now := s.now()
	rec := Record{
		ID:         NewRecordID(event.EventID),
		Event:      event,
		Deliveries: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	deliveries, err := s.Repo.Insert(ctx, rec)
	if err != nil {
		s.logger.Error().Err(err).
			Str("event_id", event.EventID).
			Str("payment_id", event.PaymentID).
			Msg("storing payment event")
		return failedOutcome("storing payment event: %w", err)
	}

	outcome := storedOutcome(rec.ID, deliveries)
	level := zerolog.InfoLevel
	if outcome.Kind == Duplicate {
		level = zerolog.WarnLevel
	}
	s.logger.WithLevel(level).
		Str("event_id", event.EventID).
		Str("payment_id", event.PaymentID).
		Str("status", event.Status.String()).
		Str("outcome", outcome.Kind.String()).
		Int("deliveries", deliveries).
		Msg("payment event recorded")

	return outcome
}

// OrderRef returns the order reference recorded for a payment
func (s *Service) OrderRef(ctx context.Context, paymentID string) (string, error) {
	ref, err := s.Repo.FindOrderRef(ctx, paymentID)
	if err != nil {
		return "", fmt.Errorf("finding order reference: %w", err)
	}
	return ref, nil
}

// Recent returns the most recently recorded payments
func (s *Service) Recent(ctx context.Context) ([]Record, error) {
	all, err := s.Repo.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("selecting recent payments: %w", err)
	}
	return all, nil
}

// GetStatusCounts returns the number of records per status, every status included
func (s *Service) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting payments by status: %w", err)
	}

	result := make(map[string]int64, len(Statuses))
	for _, st := range Statuses {
		result[st.String()] = counts[st]
	}
	return result, nil
}

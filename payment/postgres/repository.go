package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/marcelsud/payment-relay/payment"
)

/*
PostgreSQL implementation of payment.Repository

One row per logical event in checkout_payments. A partial unique index on
event_id makes the database the arbiter for concurrent deliveries of the same
event; rows without an event id (empty or the unknown_event sentinel) are
outside the index and are always appended.
*/

const recordColumns = `id, payment_id, event_id, order_ref, event_type, status, amount, currency,
	email, processed_on, response_code, response_summary, deliveries, created_at, updated_at`

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a PostgreSQL repository with a custom pool
// maxOpenConns: maximum simultaneous connections (0 = unlimited)
// maxIdleConns: maximum idle connections kept in the pool
// maxLifeMinutes: maximum minutes a connection may be reused
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Insert stores rec or, when its event was already recorded, bumps the delivery count
func (r *Repository) Insert(ctx context.Context, rec payment.Record) (int, error) {
	query := `
		INSERT INTO checkout_payments (id, payment_id, event_id, order_ref, event_type, status, amount, currency,
			email, processed_on, response_code, response_summary, deliveries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13, $13)
		ON CONFLICT (event_id) WHERE event_id NOT IN ('', 'unknown_event')
		DO UPDATE SET deliveries = checkout_payments.deliveries + 1, updated_at = EXCLUDED.updated_at
		RETURNING deliveries
	`

	ev := rec.Event
	var deliveries int
	err := r.DB.QueryRowContext(ctx, query,
		rec.ID,
		ev.PaymentID,
		ev.EventID,
		nullString(ev.OrderRef),
		ev.EventType,
		ev.Status.String(),
		ev.Amount,
		ev.Currency,
		ev.Email,
		ev.ProcessedOn,
		ev.ResponseCode,
		ev.ResponseSummary,
		rec.CreatedAt,
	).Scan(&deliveries)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, fmt.Errorf("inserting payment (%s): %w", pqErr.Code.Name(), err)
		}
		return 0, fmt.Errorf("inserting payment: %w", err)
	}

	return deliveries, nil
}

// FindOrderRef returns the earliest non-null order reference recorded for a payment
func (r *Repository) FindOrderRef(ctx context.Context, paymentID string) (string, error) {
	query := `
		SELECT order_ref FROM checkout_payments
		WHERE payment_id = $1 AND order_ref IS NOT NULL
		ORDER BY created_at
		LIMIT 1
	`

	var ref string
	err := r.DB.QueryRowContext(ctx, query, paymentID).Scan(&ref)
	if errors.Is(err, sql.ErrNoRows) {
		return "", payment.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("selecting order reference: %w", err)
	}

	return ref, nil
}

// Recent returns up to limit records ordered by creation time, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]payment.Record, error) {
	query := "SELECT " + recordColumns + " FROM checkout_payments ORDER BY created_at DESC LIMIT $1"

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("selecting payments: %w", err)
	}
	defer rows.Close()

	records := make([]payment.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return records, nil
}

// CountByStatus returns the number of rows per status
func (r *Repository) CountByStatus(ctx context.Context) (map[payment.Status]int64, error) {
	query := "SELECT status, COUNT(*) FROM checkout_payments GROUP BY status"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting payments: %w", err)
	}
	defer rows.Close()

	counts := make(map[payment.Status]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[payment.NewStatus(status)] += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	return counts, nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the checkout_payments table and its indexes
func (r *Repository) CreateTable(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS checkout_payments (
			id UUID PRIMARY KEY,
			payment_id TEXT NOT NULL,
			event_id TEXT NOT NULL,
			order_ref TEXT,
			event_type TEXT NOT NULL,
			status TEXT NOT NULL,
			amount BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL,
			email TEXT,
			processed_on TEXT NOT NULL,
			response_code TEXT,
			response_summary TEXT,
			deliveries INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS checkout_payments_event_id_key
			ON checkout_payments (event_id) WHERE event_id NOT IN ('', 'unknown_event')`,
		`CREATE INDEX IF NOT EXISTS checkout_payments_payment_id_idx ON checkout_payments (payment_id)`,
		`CREATE INDEX IF NOT EXISTS checkout_payments_created_at_idx ON checkout_payments (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	return nil
}

// DropTable removes the checkout_payments table (useful for tests)
func (r *Repository) DropTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DROP TABLE IF EXISTS checkout_payments CASCADE")
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (payment.Record, error) {
	var (
		rec             payment.Record
		orderRef        sql.NullString
		status          string
		email           sql.NullString
		responseCode    sql.NullString
		responseSummary sql.NullString
	)

	err := s.Scan(
		&rec.ID,
		&rec.Event.PaymentID,
		&rec.Event.EventID,
		&orderRef,
		&rec.Event.EventType,
		&status,
		&rec.Event.Amount,
		&rec.Event.Currency,
		&email,
		&rec.Event.ProcessedOn,
		&responseCode,
		&responseSummary,
		&rec.Deliveries,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return payment.Record{}, err
	}

	if orderRef.Valid {
		ref := orderRef.String
		rec.Event.OrderRef = &ref
	}
	rec.Event.Status = payment.NewStatus(status)
	rec.Event.Email = email.String
	rec.Event.ResponseCode = responseCode.String
	rec.Event.ResponseSummary = responseSummary.String

	return rec, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

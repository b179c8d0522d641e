package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/payment-relay/payment"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of payment.Repository
 * Uses a claim key per event id, written under WATCH with the record, to deduplicate
 * Uses Redis Hashes for the records, a sorted set for recency and a list per payment
 */

const (
	recordPrefix   = "payment"                // Hash naming: payment:{record_id}
	claimPrefix    = "payment:event"          // String naming: payment:event:{event_id} -> record_id
	byPaymentKey   = "payment:by-payment"     // List naming: payment:by-payment:{payment_id}
	recentKey      = "payments:recent"        // Sorted set of record ids scored by created_at
	statusCountKey = "payments:status-counts" // Hash of status -> count
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// maxTxAttempts bounds how often a contended Insert retries its transaction
const maxTxAttempts = 50

// ErrContended is returned when concurrent writers kept invalidating an Insert
var ErrContended = errors.New("too many concurrent writes for event")

/* Insert stores rec or, when its event was already recorded, bumps the delivery count
 * The event claim is written in the same MULTI as the record, under WATCH, so a
 * claim never exists without its record. A claim whose record is missing is
 * treated as unclaimed and the record is written again.
 */
func (r *Repository) Insert(ctx context.Context, rec payment.Record) (int, error) {
	if !rec.Event.HasEventID() {
		return r.store(ctx, r.client, rec, "")
	}

	claim := claimKey(rec.Event.EventID)
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		var deliveries int
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			id, err := tx.Get(ctx, claim).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return fmt.Errorf("reading event claim: %w", err)
			}

			if id != "" {
				n, err := tx.Exists(ctx, recordKey(id)).Result()
				if err != nil {
					return fmt.Errorf("checking claimed record: %w", err)
				}
				if n > 0 {
					deliveries, err = r.bumpDeliveries(ctx, tx, id)
					return err
				}
			}

			deliveries, err = r.store(ctx, tx, rec, claim)
			return err
		}, claim)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return deliveries, nil
	}

	return 0, fmt.Errorf("storing payment %s: %w", rec.Event.EventID, ErrContended)
}

// txPipeliner is satisfied by *redis.Client and by a watched *redis.Tx
type txPipeliner interface {
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// store writes the record, its indexes and, when claim is set, the event claim in one MULTI
func (r *Repository) store(ctx context.Context, tx txPipeliner, rec payment.Record, claim string) (int, error) {
	ev := rec.Event
	fields := map[string]interface{}{
		"id":               rec.ID,
		"payment_id":       ev.PaymentID,
		"event_id":         ev.EventID,
		"event_type":       ev.EventType,
		"status":           ev.Status.String(),
		"amount":           ev.Amount,
		"currency":         ev.Currency,
		"email":            ev.Email,
		"processed_on":     ev.ProcessedOn,
		"response_code":    ev.ResponseCode,
		"response_summary": ev.ResponseSummary,
		"created_at":       rec.CreatedAt.UnixNano(),
		"updated_at":       rec.UpdatedAt.UnixNano(),
	}
	if ev.OrderRef != nil {
		fields["order_ref"] = *ev.OrderRef
	}

	var deliveries *redis.IntCmd
	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := recordKey(rec.ID)
		pipe.HSet(ctx, key, fields)
		deliveries = pipe.HIncrBy(ctx, key, "deliveries", 1)
		pipe.RPush(ctx, paymentKey(ev.PaymentID), rec.ID)
		pipe.ZAdd(ctx, recentKey, redis.Z{Score: float64(rec.CreatedAt.UnixNano()), Member: rec.ID})
		pipe.HIncrBy(ctx, statusCountKey, ev.Status.String(), 1)
		if claim != "" {
			pipe.Set(ctx, claim, rec.ID, 0)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storing payment: %w", err)
	}

	return int(deliveries.Val()), nil
}

// bumpDeliveries counts a replayed delivery against an existing record
func (r *Repository) bumpDeliveries(ctx context.Context, tx txPipeliner, id string) (int, error) {
	var deliveries *redis.IntCmd
	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := recordKey(id)
		deliveries = pipe.HIncrBy(ctx, key, "deliveries", 1)
		pipe.HSet(ctx, key, "updated_at", time.Now().UTC().UnixNano())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting delivery: %w", err)
	}

	return int(deliveries.Val()), nil
}

// FindOrderRef returns the earliest non-null order reference recorded for a payment
func (r *Repository) FindOrderRef(ctx context.Context, paymentID string) (string, error) {
	ids, err := r.client.LRange(ctx, paymentKey(paymentID), 0, -1).Result()
	if err != nil {
		return "", fmt.Errorf("listing payment records: %w", err)
	}

	for _, id := range ids {
		ref, err := r.client.HGet(ctx, recordKey(id), "order_ref").Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading order reference: %w", err)
		}
		return ref, nil
	}

	return "", payment.ErrNotFound
}

// Recent returns up to limit records ordered by creation time, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]payment.Record, error) {
	if limit <= 0 {
		return []payment.Record{}, nil
	}

	ids, err := r.client.ZRevRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing recent payments: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, recordKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading recent payments: %w", err)
	}

	records := make([]payment.Record, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		records = append(records, recordFromHash(data))
	}

	return records, nil
}

// CountByStatus returns the number of records per status
func (r *Repository) CountByStatus(ctx context.Context) (map[payment.Status]int64, error) {
	data, err := r.client.HGetAll(ctx, statusCountKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading status counts: %w", err)
	}

	counts := make(map[payment.Status]int64, len(data))
	for status, v := range data {
		counts[payment.NewStatus(status)] += parseInt64(v)
	}

	return counts, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client (for testing)
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

func recordFromHash(data map[string]string) payment.Record {
	rec := payment.Record{
		ID: data["id"],
		Event: payment.Event{
			EventID:         data["event_id"],
			PaymentID:       data["payment_id"],
			EventType:       data["event_type"],
			Status:          payment.NewStatus(data["status"]),
			Amount:          parseInt64(data["amount"]),
			Currency:        data["currency"],
			Email:           data["email"],
			ProcessedOn:     data["processed_on"],
			ResponseCode:    data["response_code"],
			ResponseSummary: data["response_summary"],
		},
		Deliveries: int(parseInt64(data["deliveries"])),
		CreatedAt:  time.Unix(0, parseInt64(data["created_at"])).UTC(),
		UpdatedAt:  time.Unix(0, parseInt64(data["updated_at"])).UTC(),
	}
	if ref, ok := data["order_ref"]; ok {
		rec.Event.OrderRef = &ref
	}
	return rec
}

func recordKey(id string) string {
	return fmt.Sprintf("%s:%s", recordPrefix, id)
}

func claimKey(eventID string) string {
	return fmt.Sprintf("%s:%s", claimPrefix, eventID)
}

func paymentKey(paymentID string) string {
	return fmt.Sprintf("%s:%s", byPaymentKey, paymentID)
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

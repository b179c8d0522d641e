//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/payment-relay/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(eventID, paymentID string, orderRef *string, status payment.Status, createdAt time.Time) payment.Record {
	return payment.Record{
		ID: payment.NewRecordID(eventID),
		Event: payment.Event{
			EventID:         eventID,
			PaymentID:       paymentID,
			OrderRef:        orderRef,
			EventType:       "payment_" + status.String(),
			Status:          status,
			Amount:          6540,
			Currency:        "GBP",
			Email:           "jo@example.com",
			ProcessedOn:     createdAt.Format(time.RFC3339),
			ResponseCode:    "10000",
			ResponseSummary: "Approved",
		},
		Deliveries: 1,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, redisContainer.Addr)
	defer repo.Close(ctx)

	base := time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)
	ref := "20250129100000-abcdef0123456789"

	t.Run("store and read back", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		deliveries, err := repo.Insert(ctx, newRecord("evt_1", "pay_1", &ref, payment.Approved, base))
		require.NoError(t, err)
		assert.Equal(t, 1, deliveries)

		records, err := repo.Recent(ctx, 20)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, payment.NewRecordID("evt_1"), got.ID)
		assert.Equal(t, "pay_1", got.Event.PaymentID)
		assert.Equal(t, payment.Approved, got.Event.Status)
		assert.Equal(t, int64(6540), got.Event.Amount)
		require.NotNil(t, got.Event.OrderRef)
		assert.Equal(t, ref, *got.Event.OrderRef)
		assert.Equal(t, 1, got.Deliveries)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("replayed event is counted, not stored", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		_, err := repo.Insert(ctx, newRecord("evt_1", "pay_1", &ref, payment.Approved, base))
		require.NoError(t, err)

		deliveries, err := repo.Insert(ctx, newRecord("evt_1", "pay_1", nil, payment.Declined, base.Add(time.Minute)))
		require.NoError(t, err)
		assert.Equal(t, 2, deliveries)

		records, err := repo.Recent(ctx, 20)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, payment.Approved, records[0].Event.Status)
		assert.Equal(t, 2, records[0].Deliveries)

		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[payment.Approved])
		assert.Equal(t, int64(0), counts[payment.Declined])
	})

	t.Run("concurrent deliveries store one record", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Insert(ctx, newRecord("evt_race", "pay_1", nil, payment.Captured, base))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		records, err := repo.Recent(ctx, 20)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 10, records[0].Deliveries)
	})

	t.Run("claim without a record is written, not counted", func(t *testing.T) {
		client := repo.GetClient()
		FlushAll(t, client)

		stale := "00000000-0000-0000-0000-000000000000"
		require.NoError(t, client.Set(ctx, "payment:event:evt_orphan", stale, 0).Err())

		deliveries, err := repo.Insert(ctx, newRecord("evt_orphan", "pay_1", &ref, payment.Captured, base))
		require.NoError(t, err)
		assert.Equal(t, 1, deliveries)

		records, err := repo.Recent(ctx, 20)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, payment.NewRecordID("evt_orphan"), records[0].ID)
		assert.Equal(t, 1, records[0].Deliveries)

		claimed, err := client.Get(ctx, "payment:event:evt_orphan").Result()
		require.NoError(t, err)
		assert.Equal(t, payment.NewRecordID("evt_orphan"), claimed)

		stub, err := client.Exists(ctx, "payment:"+stale).Result()
		require.NoError(t, err)
		assert.Zero(t, stub)

		deliveries, err = repo.Insert(ctx, newRecord("evt_orphan", "pay_1", &ref, payment.Captured, base))
		require.NoError(t, err)
		assert.Equal(t, 2, deliveries)
	})

	t.Run("claim is written with its record and never expires", func(t *testing.T) {
		client := repo.GetClient()
		FlushAll(t, client)

		_, err := repo.Insert(ctx, newRecord("evt_claim", "pay_1", nil, payment.Approved, base))
		require.NoError(t, err)

		id, err := client.Get(ctx, "payment:event:evt_claim").Result()
		require.NoError(t, err)
		assert.Equal(t, payment.NewRecordID("evt_claim"), id)

		n, err := client.Exists(ctx, "payment:"+id).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		ttl, err := client.TTL(ctx, "payment:event:evt_claim").Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl)
	})

	t.Run("sentinel event ids are never deduplicated", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		for i := 0; i < 3; i++ {
			rec := newRecord(payment.UnknownEventID, payment.UnknownPaymentID, nil, payment.Pending, base.Add(time.Duration(i)*time.Second))
			deliveries, err := repo.Insert(ctx, rec)
			require.NoError(t, err)
			assert.Equal(t, 1, deliveries)
		}

		records, err := repo.Recent(ctx, 20)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("find order reference", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		_, err := repo.Insert(ctx, newRecord("evt_a", "pay_1", nil, payment.Pending, base))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, newRecord("evt_b", "pay_1", &ref, payment.Approved, base.Add(time.Second)))
		require.NoError(t, err)

		got, err := repo.FindOrderRef(ctx, "pay_1")
		require.NoError(t, err)
		assert.Equal(t, ref, got)

		_, err = repo.FindOrderRef(ctx, "pay_unknown")
		assert.ErrorIs(t, err, payment.ErrNotFound)
	})

	t.Run("recent is newest first and bounded", func(t *testing.T) {
		FlushAll(t, repo.GetClient())

		for i := 0; i < 25; i++ {
			rec := newRecord(fmt.Sprintf("evt_%02d", i), "pay_1", nil, payment.Captured, base.Add(time.Duration(i)*time.Second))
			_, err := repo.Insert(ctx, rec)
			require.NoError(t, err)
		}

		records, err := repo.Recent(ctx, payment.RecentLimit)
		require.NoError(t, err)
		require.Len(t, records, payment.RecentLimit)
		assert.Equal(t, "evt_24", records[0].Event.EventID)
		for i := 1; i < len(records); i++ {
			assert.True(t, records[i-1].CreatedAt.After(records[i].CreatedAt))
		}
	})
}

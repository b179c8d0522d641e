package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/payment-relay/config"
	"github.com/marcelsud/payment-relay/internal/storage"
	"github.com/marcelsud/payment-relay/payment"
	"github.com/rs/zerolog"
)

/*
recent-payments - prints what the relay has recorded

Uses the same configuration as the API (.env and environment), so it reads
from whichever backend STORAGE_BACKEND selects.

Execute with:
  go run cmd/recent-payments/main.go
  go run cmd/recent-payments/main.go pay_mbabizu24mvu3mela5njyhpit4
*/

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("🔗 Connecting to %s...\n", cfg.Backend())
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	s := payment.NewService(repo, zerolog.Nop())

	if len(os.Args) > 1 {
		paymentID := os.Args[1]
		ref, err := s.OrderRef(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", paymentID, err)
		}
		fmt.Printf("✅ %s -> %s\n", paymentID, ref)
		return nil
	}

	counts, err := s.GetStatusCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\n📊 Payments by status:")
	for _, st := range payment.Statuses {
		fmt.Printf("   %-10s %d\n", st.String(), counts[st.String()])
	}

	records, err := s.Recent(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n💳 %d most recent payments:\n", len(records))
	if len(records) == 0 {
		fmt.Println("   (no payments yet)")
		return nil
	}
	for _, rec := range records {
		ref := "-"
		if rec.Event.OrderRef != nil {
			ref = *rec.Event.OrderRef
		}
		fmt.Printf("   %s  %-30s %-9s %8d %s  order=%s deliveries=%d\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Event.PaymentID,
			rec.Event.Status.String(),
			rec.Event.Amount,
			rec.Event.Currency,
			ref,
			rec.Deliveries,
		)
	}
	return nil
}

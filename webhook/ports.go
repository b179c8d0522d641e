package webhook

import (
	"context"

	"github.com/marcelsud/payment-relay/payment"
)

/* Small, focused interfaces for what Process depends on
 * Implemented by signature.Verifier, payment.Service and metrics.OTelExporter
 */

// Verifier checks a delivery's signature header against its raw body
type Verifier interface {
	Verify(body []byte, provided string) bool
}

// Recorder persists a normalized event
type Recorder interface {
	Record(ctx context.Context, event payment.Event) payment.Outcome
}

// Meter counts processed deliveries by outcome label
type Meter interface {
	RecordDelivery(ctx context.Context, outcome string)
}

type noopMeter struct{}

func (noopMeter) RecordDelivery(context.Context, string) {}

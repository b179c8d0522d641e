package payment

import (
	"bytes"
	"fmt"
)

/* Status is the canonical payment status
 * Derived from the processor event type, never taken verbatim from the sender
 */
type Status int

const (
	Pending Status = iota + 1
	Approved
	Declined
	Captured
	Voided
	Refunded
)

// Statuses lists every canonical status
var Statuses = []Status{Pending, Approved, Declined, Captured, Voided, Refunded}

// eventTypeStatus maps processor event types to canonical statuses
var eventTypeStatus = map[string]Status{
	"payment_approved": Approved,
	"payment_declined": Declined,
	"payment_captured": Captured,
	"payment_voided":   Voided,
	"payment_refunded": Refunded,
}

// StatusFromEventType derives the status for a processor event type.
// Unmapped event types are Pending.
func StatusFromEventType(eventType string) Status {
	if s, ok := eventTypeStatus[eventType]; ok {
		return s
	}
	return Pending
}

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Approved:
		return "approved"
	case Declined:
		return "declined"
	case Captured:
		return "captured"
	case Voided:
		return "voided"
	case Refunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from its string form, defaulting to Pending
func NewStatus(str string) Status {
	switch str {
	case "approved":
		return Approved
	case "declined":
		return Declined
	case "captured":
		return Captured
	case "voided":
		return Voided
	case "refunded":
		return Refunded
	default:
		return Pending
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Pending || s > Refunded {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// MarshalJSON encodes the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(s.String())
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

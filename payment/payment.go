package payment

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel values used when a processor payload omits a field
const (
	UnknownEventID         = "unknown_event"
	UnknownPaymentID       = "unknown_id"
	UnknownEventType       = "unknown_event"
	UnknownCurrency        = "unknown_currency"
	UnknownEmail           = "unknown_email"
	UnknownTimestamp       = "unknown_timestamp"
	UnknownResponseCode    = "unknown_code"
	UnknownResponseSummary = "unknown_summary"
)

/* Event is the canonical shape of one processor notification
 * Built once per delivery by Normalize and never mutated afterwards.
 * Uses value semantics as it represents data, not behavior
 */
type Event struct {
	EventID         string
	PaymentID       string
	OrderRef        *string
	EventType       string
	Status          Status
	Amount          int64
	Currency        string
	Email           string
	ProcessedOn     string
	ResponseCode    string
	ResponseSummary string
}

// HasEventID reports whether the processor supplied an event id
func (e Event) HasEventID() bool {
	return e.EventID != "" && e.EventID != UnknownEventID
}

// Record is an Event as persisted by a Repository
type Record struct {
	ID         string
	Event      Event
	Deliveries int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// recordNamespace scopes the deterministic record ids derived from event ids
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://api.checkout.com/events"))

/* NewRecordID returns the row id for an event
 * Events with a processor id always map to the same id, so a retried write
 * lands on the same row or key. Sentinel events get a fresh random id.
 */
func NewRecordID(eventID string) string {
	if eventID == "" || eventID == UnknownEventID {
		return uuid.New().String()
	}
	return uuid.NewSHA1(recordNamespace, []byte(eventID)).String()
}

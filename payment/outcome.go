package payment

import "fmt"

// OutcomeKind tells what recording an event did
type OutcomeKind int

const (
	Stored OutcomeKind = iota + 1
	Duplicate
	Failed
)

// String returns the string representation of the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case Stored:
		return "stored"
	case Duplicate:
		return "duplicate"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

/* Outcome is the result of Service.Record
 * Storage faults are values here, not errors, so the caller has to decide
 * what the sender sees for each case.
 */
type Outcome struct {
	Kind       OutcomeKind
	RecordID   string
	Deliveries int
	Err        error
}

// Accepted reports whether the event is durably recorded
func (o Outcome) Accepted() bool {
	return o.Kind == Stored || o.Kind == Duplicate
}

// Reason describes why recording failed
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

func storedOutcome(id string, deliveries int) Outcome {
	if deliveries > 1 {
		return Outcome{Kind: Duplicate, RecordID: id, Deliveries: deliveries}
	}
	return Outcome{Kind: Stored, RecordID: id, Deliveries: deliveries}
}

func failedOutcome(format string, err error) Outcome {
	return Outcome{Kind: Failed, Err: fmt.Errorf(format, err)}
}

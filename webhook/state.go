package webhook

/* State is where a delivery is in its lifecycle
 * Follows: Received -> Verifying -> (Unauthorized | Normalizing) -> Recording -> (Accepted | Failed)
 */
type State int

const (
	Received State = iota + 1
	Verifying
	Unauthorized
	Normalizing
	Recording
	Accepted
	Failed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Received:
		return "received"
	case Verifying:
		return "verifying"
	case Unauthorized:
		return "unauthorized"
	case Normalizing:
		return "normalizing"
	case Recording:
		return "recording"
	case Accepted:
		return "accepted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsFinal returns true if the state is a terminal state
func (s State) IsFinal() bool {
	return s == Unauthorized || s == Accepted || s == Failed
}

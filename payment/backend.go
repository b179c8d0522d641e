package payment

import "fmt"

/* Backend selects the datastore behind the Repository
 * Postgres is the primary store; Redis is a lighter deployment option
 */
type Backend int

const (
	Postgres Backend = iota + 1
	Redis
)

// String returns the string representation of the backend
func (b Backend) String() string {
	switch b {
	case Postgres:
		return "postgres"
	case Redis:
		return "redis"
	default:
		return "unknown"
	}
}

// NewBackend creates a Backend from a string
func NewBackend(s string) Backend {
	switch s {
	case "postgres":
		return Postgres
	case "redis":
		return Redis
	default:
		return Postgres
	}
}

// Validate checks if the backend is valid
func (b Backend) Validate() error {
	if b != Postgres && b != Redis {
		return fmt.Errorf("invalid storage backend: %d", b)
	}
	return nil
}

package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
	"github.com/quantsingularity/FinovaBank/pkg/events"
)

// ErrEventNotFound is returned when no audit event exists for an id.
var ErrEventNotFound = errors.New("audit event not found")

// AuditFilter narrows an audit query. Zero values mean "no constraint".
type AuditFilter struct {
	From        time.Time
	To          time.Time
	ActorID     string
	Action      string
	Service     string
	Tag         string
	MinSeverity valueobject.Severity
	Limit       int
}

// AuditStore is the persistence port for the append-only audit ledger.
// The store is the single authority for sequence ids: Append assigns
// the next id atomically and returns the stamped copy. Implementations
// must allow concurrent appends and reads; readers always observe fully
// constructed events.
type AuditStore interface {
	// Append stores the event, assigns its sequence id and returns the
	// stored copy. Two concurrent appends never share a sequence id.
	Append(ctx context.Context, event model.AuditEvent) (model.AuditEvent, error)

	// FindByID retrieves one event by its event id.
	// Returns ErrEventNotFound when the id is unknown.
	FindByID(ctx context.Context, id uuid.UUID) (model.AuditEvent, error)

	// List returns events matching the filter, newest first.
	List(ctx context.Context, filter AuditFilter) ([]model.AuditEvent, error)
}

// Blocklist is the shared set of blocked source addresses maintained by
// the login/API threat analysis. Add and Remove are atomic; Snapshot
// returns a consistent copy for reporting.
type Blocklist interface {
	Block(ctx context.Context, ip string) error
	Unblock(ctx context.Context, ip string) (bool, error)
	IsBlocked(ctx context.Context, ip string) (bool, error)
	Snapshot(ctx context.Context) ([]string, error)
}

// ActivityWindow tracks recent security activity for velocity checks:
// failed login attempts per actor/address and request counts per
// address. Counts are over a caller-supplied cutoff so a batch of
// analyses can share one clock reading.
type ActivityWindow interface {
	RecordFailedLogin(ctx context.Context, username, ip string, at time.Time) error
	CountFailedLogins(ctx context.Context, username, ip string, since time.Time) (int, error)

	RecordRequest(ctx context.Context, ip string, at time.Time) error
	CountRequests(ctx context.Context, ip string, since time.Time) (int, error)
}

// EventPublisher is the port for publishing domain events to the
// messaging infrastructure.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

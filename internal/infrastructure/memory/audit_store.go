package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
)

// AuditStore is an in-memory implementation of port.AuditStore. It is
// the default backing for single-node deployments and for tests; the
// postgres implementation carries the same contract for durable setups.
type AuditStore struct {
	mu      sync.RWMutex
	events  []model.AuditEvent
	byID    map[uuid.UUID]int
	nextSeq uint64
}

// NewAuditStore creates an empty in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{
		byID: make(map[uuid.UUID]int),
	}
}

// Append stores the event, assigns the next sequence id and returns the
// stamped copy. Sequence assignment and insertion happen under one lock
// so concurrent appends never share an id and readers never observe a
// gap.
func (s *AuditStore) Append(_ context.Context, event model.AuditEvent) (model.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	stamped := event.WithSequence(s.nextSeq)
	s.byID[stamped.ID()] = len(s.events)
	s.events = append(s.events, stamped)

	return stamped, nil
}

// FindByID retrieves one event by its event id.
func (s *AuditStore) FindByID(_ context.Context, id uuid.UUID) (model.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return model.AuditEvent{}, port.ErrEventNotFound
	}
	return s.events[idx], nil
}

// List returns events matching the filter, newest first.
func (s *AuditStore) List(_ context.Context, filter port.AuditFilter) ([]model.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.AuditEvent, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		event := s.events[i]
		if !matches(event, filter) {
			continue
		}
		matched = append(matched, event)
		if filter.Limit > 0 && len(matched) >= filter.Limit {
			break
		}
	}
	return matched, nil
}

func matches(event model.AuditEvent, filter port.AuditFilter) bool {
	if !filter.From.IsZero() && event.Timestamp().Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && event.Timestamp().After(filter.To) {
		return false
	}
	if filter.ActorID != "" && event.ActorID() != filter.ActorID {
		return false
	}
	if filter.Action != "" && event.Action() != filter.Action {
		return false
	}
	if filter.Service != "" && event.Service() != filter.Service {
		return false
	}
	if filter.Tag != "" && !event.HasTag(filter.Tag) {
		return false
	}
	if !filter.MinSeverity.IsZero() && !event.RiskLevel().AtLeast(filter.MinSeverity) {
		return false
	}
	return true
}

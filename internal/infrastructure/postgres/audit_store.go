package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// AuditStore is a PostgreSQL implementation of port.AuditStore. Sequence
// ids are assigned by the audit_events BIGSERIAL column, so concurrent
// appends receive distinct ids without application-level coordination.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates a new PostgreSQL audit store.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

const auditColumns = `sequence_id, id, recorded_at, actor_id, session_id, ip_address, user_agent,
	service, action, resource, resource_id, status, error_message,
	payload, payload_hash, risk_level, tags, retention_years`

// Append inserts the event and returns the copy stamped with the
// database-assigned sequence id.
func (s *AuditStore) Append(ctx context.Context, event model.AuditEvent) (model.AuditEvent, error) {
	payloadJSON, err := json.Marshal(event.Payload())
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO audit_events (
			id, recorded_at, actor_id, session_id, ip_address, user_agent,
			service, action, resource, resource_id, status, error_message,
			payload, payload_hash, risk_level, tags, retention_years
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING sequence_id`

	var seq uint64
	err = s.pool.QueryRow(ctx, query,
		event.ID(),
		event.Timestamp(),
		event.ActorID(),
		event.SessionID(),
		event.IPAddress(),
		event.UserAgent(),
		event.Service(),
		event.Action(),
		event.Resource(),
		event.ResourceID(),
		event.Status(),
		event.ErrorMessage(),
		payloadJSON,
		event.PayloadHash(),
		event.RiskLevel().String(),
		event.Tags(),
		event.RetentionYears(),
	).Scan(&seq)
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("failed to append audit event: %w", err)
	}

	return event.WithSequence(seq), nil
}

// FindByID retrieves one event by its event id.
func (s *AuditStore) FindByID(ctx context.Context, id uuid.UUID) (model.AuditEvent, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_events WHERE id = $1`

	event, err := s.scanEvent(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuditEvent{}, port.ErrEventNotFound
		}
		return model.AuditEvent{}, fmt.Errorf("failed to find audit event: %w", err)
	}
	return event, nil
}

// List returns events matching the filter, newest first.
func (s *AuditStore) List(ctx context.Context, filter port.AuditFilter) ([]model.AuditEvent, error) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if !filter.From.IsZero() {
		addCondition("recorded_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		addCondition("recorded_at <= $%d", filter.To)
	}
	if filter.ActorID != "" {
		addCondition("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		addCondition("action = $%d", filter.Action)
	}
	if filter.Service != "" {
		addCondition("service = $%d", filter.Service)
	}
	if filter.Tag != "" {
		addCondition("$%d = ANY(tags)", filter.Tag)
	}
	if !filter.MinSeverity.IsZero() {
		addCondition("risk_level = ANY($%d)", severityAtLeast(filter.MinSeverity))
	}

	query := `SELECT ` + auditColumns + ` FROM audit_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sequence_id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	events := make([]model.AuditEvent, 0)
	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}

// severityAtLeast expands a minimum severity into the set of matching
// level names for a SQL ANY clause.
func severityAtLeast(min valueobject.Severity) []string {
	all := []valueobject.Severity{
		valueobject.SeverityLow,
		valueobject.SeverityMedium,
		valueobject.SeverityHigh,
		valueobject.SeverityCritical,
	}
	names := make([]string, 0, len(all))
	for _, sev := range all {
		if sev.AtLeast(min) {
			names = append(names, sev.String())
		}
	}
	return names
}

func (s *AuditStore) scanEvent(row pgx.Row) (model.AuditEvent, error) {
	var (
		sequenceID     uint64
		id             uuid.UUID
		recordedAt     time.Time
		actorID        string
		sessionID      string
		ipAddress      string
		userAgent      string
		service        string
		action         string
		resource       string
		resourceID     string
		status         string
		errorMessage   string
		payloadJSON    []byte
		payloadHash    string
		riskLevelStr   string
		tags           []string
		retentionYears int
	)

	err := row.Scan(
		&sequenceID, &id, &recordedAt, &actorID, &sessionID, &ipAddress, &userAgent,
		&service, &action, &resource, &resourceID, &status, &errorMessage,
		&payloadJSON, &payloadHash, &riskLevelStr, &tags, &retentionYears,
	)
	if err != nil {
		return model.AuditEvent{}, err
	}

	var payload map[string]any
	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return model.AuditEvent{}, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	riskLevel, err := valueobject.SeverityFromString(riskLevelStr)
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("invalid risk level in storage: %w", err)
	}

	return model.Reconstruct(
		sequenceID, id, recordedAt,
		actorID, sessionID, ipAddress, userAgent,
		service, action, resource, resourceID,
		status, errorMessage,
		payload, payloadHash, riskLevel, tags, retentionYears,
	), nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// SecurityPosture is the use case for posture reports and blocklist
// administration.
type SecurityPosture struct {
	reporter  *service.SecurityReporter
	blocklist port.Blocklist
	ledger    *service.Ledger
	now       func() time.Time
}

// NewSecurityPosture creates a new SecurityPosture use case.
func NewSecurityPosture(reporter *service.SecurityReporter, blocklist port.Blocklist, ledger *service.Ledger) *SecurityPosture {
	return &SecurityPosture{
		reporter:  reporter,
		blocklist: blocklist,
		ledger:    ledger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *SecurityPosture) WithClock(now func() time.Time) *SecurityPosture {
	uc.now = now
	return uc
}

// Report summarizes security activity over the trailing window.
func (uc *SecurityPosture) Report(ctx context.Context, req dto.SecurityReportRequest) (dto.SecurityReportResponse, error) {
	report, err := uc.reporter.Report(ctx, req.PeriodHours)
	if err != nil {
		return dto.SecurityReportResponse{}, fmt.Errorf("build security report: %w", err)
	}
	return dto.FromSecurityReport(report), nil
}

// ListBlocked returns the currently blocked addresses.
func (uc *SecurityPosture) ListBlocked(ctx context.Context) (dto.BlocklistResponse, error) {
	ips, err := uc.blocklist.Snapshot(ctx)
	if err != nil {
		return dto.BlocklistResponse{}, fmt.Errorf("snapshot blocklist: %w", err)
	}
	return dto.BlocklistResponse{BlockedIPs: ips}, nil
}

// Unblock removes one address from the blocklist. The removal is an
// administrative override, so it is itself recorded on the ledger.
func (uc *SecurityPosture) Unblock(ctx context.Context, req dto.UnblockRequest) (dto.UnblockResponse, error) {
	if req.IPAddress == "" {
		return dto.UnblockResponse{}, fmt.Errorf("ip address is required")
	}

	removed, err := uc.blocklist.Unblock(ctx, req.IPAddress)
	if err != nil {
		return dto.UnblockResponse{}, fmt.Errorf("unblock %s: %w", req.IPAddress, err)
	}

	if _, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType:  "ip_unblocked",
		ActorID:    req.ActorID,
		Service:    service.SecurityServiceName,
		Action:     "ip_unblock",
		Resource:   "blocklist",
		ResourceID: req.IPAddress,
		RiskLevel:  valueobject.SeverityMedium,
		Data: map[string]any{
			"ip_address": req.IPAddress,
			"removed":    removed,
		},
		Timestamp: uc.now(),
	}); err != nil {
		return dto.UnblockResponse{}, fmt.Errorf("record unblock: %w", err)
	}

	return dto.UnblockResponse{IPAddress: req.IPAddress, Removed: removed}, nil
}

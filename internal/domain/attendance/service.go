package attendance

import (
	"context"
)

// AttendanceService defines business logic for the attendance clock and
// correction-approval engine. Identity (organization, staff, approver) comes
// from the caller's JWT claims.
type AttendanceService interface {
	// ClockIn records the staff member's clock-in for today.
	ClockIn(ctx context.Context, req ClockInRequest) (RecordResponse, error)

	// ClockOut records the staff member's clock-out for today.
	ClockOut(ctx context.Context, req ClockOutRequest) (RecordResponse, error)

	// GetToday reports today's clock state for the staff member.
	GetToday(ctx context.Context) (TodayResponse, error)

	// SubmitCorrection files a manual entry awaiting approval.
	SubmitCorrection(ctx context.Context, req SubmitCorrectionRequest) (RecordResponse, error)

	// Review approves or rejects one pending manual entry.
	Review(ctx context.Context, req ReviewRequest) (RecordResponse, error)

	// ApproveAll approves every pending record of the organization,
	// collecting per-item failures instead of aborting.
	ApproveAll(ctx context.Context) (BatchApprovalResult, error)

	// MonthlyStats derives the month's figures from the raw record set.
	MonthlyStats(ctx context.Context, req MonthlyStatsRequest) (MonthlyStatsResponse, error)

	// ListRecords retrieves records for dashboards, rejected rows included.
	ListRecords(ctx context.Context, filter ListFilter) (ListRecordsResponse, error)
}

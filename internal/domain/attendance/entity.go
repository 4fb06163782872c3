package attendance

import (
	"time"
)

// Status is the derived day status. It is computed at write time from the
// organization schedule and never set directly by staff.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusAbsent     Status = "absent"
	StatusLeave      Status = "leave"
)

// ApprovalStatus tracks the review lifecycle of a manual entry. Live clock
// events are stored as approved so that aggregation reads one field.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Record is the attendance ledger row. At most one exists per
// (organization, staff, record date); the database enforces the triple key.
type Record struct {
	ID             string
	OrganizationID string
	StaffID        string
	RecordDate     time.Time // date-only, tenant-local calendar day

	ClockIn  *time.Time // UTC instant
	ClockOut *time.Time // UTC instant, only meaningful once ClockIn is set

	ClockInLatitude        *float64
	ClockInLongitude       *float64
	ClockInAccuracyMeters  *float64
	ClockOutLatitude       *float64
	ClockOutLongitude      *float64
	ClockOutAccuracyMeters *float64

	// Geofence flags are frozen at clock time, one per event; they are never
	// recomputed retroactively.
	ClockInWithinFence  *bool
	ClockOutWithinFence *bool

	Status Status

	IsManualEntry bool
	ManualReason  *string

	ApprovalStatus ApprovalStatus
	ApproverID     *string
	ApprovedAt     *time.Time
	ReviewNote     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardAggregates reports whether the record participates in monthly
// statistics. Rejected manual entries are kept for audit but never counted.
func (r Record) CountsTowardAggregates() bool {
	return r.ApprovalStatus != ApprovalRejected
}

// IsApprovedMakeUp reports whether the record is an approved manual entry.
func (r Record) IsApprovedMakeUp() bool {
	return r.IsManualEntry && r.ApprovalStatus == ApprovalApproved
}

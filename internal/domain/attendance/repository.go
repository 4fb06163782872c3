package attendance

import (
	"context"
	"time"
)

// ClockOutUpdate carries the mutable fields of a clock-out event.
type ClockOutUpdate struct {
	ClockOut       time.Time
	Latitude       *float64
	Longitude      *float64
	AccuracyMeters *float64
	WithinFence    *bool
	Status         Status
}

// Decision carries a reviewer's verdict on a pending record.
type Decision struct {
	Status     ApprovalStatus
	ApproverID string
	DecidedAt  time.Time
	Note       *string
}

// AttendanceRepository defines data access for the attendance ledger.
// All methods take organizationID to prevent cross-tenant data access; the
// unique (organization_id, staff_id, record_date) key is the concurrency
// guard for clock-in, and Decide must be a single conditional update so two
// concurrent reviewers cannot both win.
type AttendanceRepository interface {
	// ClockIn atomically creates the day's record, or fills the clock-in
	// fields of an existing record that has none. Returns ErrAlreadyClockedIn
	// when the day already has a clock-in, even under concurrent calls.
	ClockIn(ctx context.Context, record Record) (Record, error)

	// ClockOut sets the clock-out fields on a record that has a clock-in and
	// no clock-out. Returns ErrNotClockedIn or ErrAlreadyClockedOut.
	ClockOut(ctx context.Context, organizationID, staffID string, date time.Time, update ClockOutUpdate) (Record, error)

	// UpsertCorrection creates or amends the day's manual entry, resetting it
	// to pending. A resubmission replaces the prior pending proposal. Returns
	// ErrAlreadyApproved when the existing record is approved and not manual.
	UpsertCorrection(ctx context.Context, record Record) (Record, error)

	// Decide transitions a pending record to approved or rejected in a single
	// conditional update. Returns ErrNotPending when the record has already
	// been decided, ErrRecordNotFound when it does not exist.
	Decide(ctx context.Context, recordID, organizationID string, decision Decision) (Record, error)

	// GetByID retrieves a record by ID with tenant isolation.
	GetByID(ctx context.Context, recordID, organizationID string) (Record, error)

	// GetByStaffAndDate returns the day's record, or nil when none exists.
	GetByStaffAndDate(ctx context.Context, organizationID, staffID string, date time.Time) (*Record, error)

	// List retrieves records with filters and pagination. Rejected entries
	// are included; audit listings must show them.
	List(ctx context.Context, organizationID string, filter ListFilter) ([]Record, int64, error)

	// ListForMonth returns every record for the staff member in the month,
	// rejected entries included; aggregation filters them out itself.
	ListForMonth(ctx context.Context, organizationID, staffID string, year int, month time.Month) ([]Record, error)

	// ListPending returns the organization's records awaiting review.
	ListPending(ctx context.Context, organizationID string) ([]Record, error)
}

package attendance

import (
	"strings"
	"time"

	"github.com/medikarte/clinic-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

// LocationPayload is the device GPS reading attached to a clock event. The
// whole payload is optional: a missing fix never blocks attendance capture.
type LocationPayload struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

func (l *LocationPayload) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(l.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(l.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if l.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "location.accuracy_meters",
			Message: "accuracy_meters must not be negative",
		})
	}

	return errs
}

type ClockInRequest struct {
	Location *LocationPayload `json:"location,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location != nil {
		errs = append(errs, r.Location.Validate()...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Location *LocationPayload `json:"location,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location != nil {
		errs = append(errs, r.Location.Validate()...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// CORRECTION DTOs
// ========================================

// SubmitCorrectionRequest proposes clock times for a day the staff member
// missed or mis-clocked. The proposal waits for an approver's decision.
type SubmitCorrectionRequest struct {
	Date     string  `json:"date"`                // YYYY-MM-DD, tenant-local
	ClockIn  *string `json:"clock_in,omitempty"`  // RFC3339
	ClockOut *string `json:"clock_out,omitempty"` // RFC3339
	Reason   string  `json:"reason"`
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "correction reason is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.ClockIn == nil && r.ClockOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "at least one of clock_in or clock_out is required",
		})
	}

	var inAt, outAt time.Time
	inValid, outValid := false, false
	if r.ClockIn != nil {
		if inAt, inValid = validator.IsValidDateTime(*r.ClockIn); !inValid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an RFC3339 timestamp",
			})
		}
	}
	if r.ClockOut != nil {
		if outAt, outValid = validator.IsValidDateTime(*r.ClockOut); !outValid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an RFC3339 timestamp",
			})
		}
	}

	if inValid && outValid && !outAt.After(inAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}

	if r.ClockOut != nil && r.ClockIn == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out cannot be proposed without clock_in",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// REVIEW DTOs
// ========================================

type ReviewRequest struct {
	RecordID string `json:"-"`
	Decision string `json:"decision"`       // approve | reject
	Note     string `json:"note,omitempty"` // optional reviewer note, kept for audit
}

// NormalizedDecision maps accepted decision spellings onto the stored
// approval status. Returns false for anything unrecognized.
func (r *ReviewRequest) NormalizedDecision() (ApprovalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(r.Decision)) {
	case "approve", "approved":
		return ApprovalApproved, true
	case "reject", "rejected":
		return ApprovalRejected, true
	default:
		return "", false
	}
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	if _, ok := r.NormalizedDecision(); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approve, reject",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BatchApprovalResult reports the per-item outcome of an approve-all run.
// Partial success is expected under concurrent review, not an error.
type BatchApprovalResult struct {
	SucceededCount int                    `json:"succeeded_count"`
	FailedCount    int                    `json:"failed_count"`
	Failures       []BatchApprovalFailure `json:"failures"`
}

type BatchApprovalFailure struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// ========================================
// QUERY DTOs
// ========================================

type ListFilter struct {
	StaffID        *string `json:"staff_id,omitempty"`
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	ApprovalStatus *string `json:"approval_status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // record_date, clock_in, clock_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.ApprovalStatus != nil {
		validStatuses := []string{"pending", "approved", "rejected"}
		if !validator.IsInSlice(*f.ApprovalStatus, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "approval_status",
				Message: "approval_status must be one of: pending, approved, rejected",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"record_date", "clock_in", "clock_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: record_date, clock_in, clock_out, status",
			})
		}
	} else {
		f.SortBy = "record_date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MonthlyStatsRequest struct {
	StaffID string `json:"staff_id"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

func (r *MonthlyStatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MonthlyStatsResponse is recomputed from the raw record set on every call;
// there is no stored running total.
type MonthlyStatsResponse struct {
	StaffID        string  `json:"staff_id"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	PresentDays    int     `json:"present_days"`
	LateDays       int     `json:"late_days"`
	EarlyLeaveDays int     `json:"early_leave_days"`
	AbsentDays     int     `json:"absent_days"`
	LeaveDays      int     `json:"leave_days"`
	OvertimeHours  float64 `json:"overtime_hours"`
	MakeUpDays     int     `json:"make_up_days"`
}

// ========================================
// RESPONSE DTOs
// ========================================

type RecordResponse struct {
	ID                  string   `json:"id"`
	StaffID             string   `json:"staff_id"`
	Date                string   `json:"date"`
	ClockIn             *string  `json:"clock_in,omitempty"`
	ClockOut            *string  `json:"clock_out,omitempty"`
	ClockInLatitude     *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude    *float64 `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude    *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude   *float64 `json:"clock_out_longitude,omitempty"`
	ClockInWithinFence  *bool    `json:"clock_in_within_geofence,omitempty"`
	ClockOutWithinFence *bool    `json:"clock_out_within_geofence,omitempty"`
	PrecisionTier       *string  `json:"precision_tier,omitempty"`
	Status              string   `json:"status"`
	IsManualEntry       bool     `json:"is_manual_entry"`
	ManualReason        *string  `json:"manual_reason,omitempty"`
	ApprovalStatus      string   `json:"approval_status"`
	ApproverID          *string  `json:"approver_id,omitempty"`
	ApprovedAt          *string  `json:"approved_at,omitempty"`
	ReviewNote          *string  `json:"review_note,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// TodayResponse tells a client whether the signed-in staff member can clock
// in or out right now.
type TodayResponse struct {
	Date        string          `json:"date"`
	HasRecord   bool            `json:"has_record"`
	Record      *RecordResponse `json:"record,omitempty"`
	CanClockIn  bool            `json:"can_clock_in"`
	CanClockOut bool            `json:"can_clock_out"`
}

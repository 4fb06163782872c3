package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/pkg/validator"
)

// SubmitCorrection implements attendance.AttendanceService.
//
// A correction is a proposal: it lands as a pending manual entry and only
// becomes authoritative for aggregation once an approver accepts it.
// Resubmitting while pending replaces the prior proposal; the store keeps one
// current proposal per day.
func (a *AttendanceServiceImpl) SubmitCorrection(ctx context.Context, req attendance.SubmitCorrectionRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	organizationID, staffID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	settings, err := a.settingsRepo.GetByID(ctx, organizationID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	day, _ := validator.IsValidDate(req.Date)

	var clockIn, clockOut *time.Time
	if req.ClockIn != nil {
		t, _ := validator.IsValidDateTime(*req.ClockIn)
		utc := t.UTC()
		clockIn = &utc
	}
	if req.ClockOut != nil {
		t, _ := validator.IsValidDateTime(*req.ClockOut)
		utc := t.UTC()
		clockOut = &utc
	}

	// The proposed times run through the same derivation rules as live
	// events, so an approved make-up day reports late/early-leave correctly.
	status := attendance.StatusNormal
	if clockIn != nil {
		status = deriveClockInStatus(*clockIn, day, settings)
	}
	if clockOut != nil {
		status = deriveClockOutStatus(status, *clockOut, day, settings)
	}

	reason := req.Reason
	record := attendance.Record{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		StaffID:        staffID,
		RecordDate:     day,
		ClockIn:        clockIn,
		ClockOut:       clockOut,
		Status:         status,
		IsManualEntry:  true,
		ManualReason:   &reason,
		ApprovalStatus: attendance.ApprovalPending,
	}

	upserted, err := a.attendanceRepo.UpsertCorrection(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(upserted), nil
}

// Review implements attendance.AttendanceService.
//
// This is the only path that mutates approval status. The repository applies
// the decision as one conditional update, so of two concurrent reviewers
// exactly one wins and the other gets ErrNotPending.
func (a *AttendanceServiceImpl) Review(ctx context.Context, req attendance.ReviewRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	decision, _ := req.NormalizedDecision()

	organizationID, approverID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	existing, err := a.attendanceRepo.GetByID(ctx, req.RecordID, organizationID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	// Submitters cannot decide their own corrections.
	if existing.StaffID == approverID {
		return attendance.RecordResponse{}, attendance.ErrUnauthorized
	}

	var note *string
	if !validator.IsEmpty(req.Note) {
		note = &req.Note
	}

	decided, err := a.attendanceRepo.Decide(ctx, req.RecordID, organizationID, attendance.Decision{
		Status:     decision,
		ApproverID: approverID,
		DecidedAt:  a.now().UTC(),
		Note:       note,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(decided), nil
}

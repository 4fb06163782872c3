package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
	"github.com/medikarte/clinic-backend-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   organization.SettingsRepository

	// now is replaceable in tests
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo organization.SettingsRepository,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		now:            time.Now,
	}
}

// identityFromContext extracts the tenant and staff identity resolved by the
// auth collaborator from the request's JWT claims.
func identityFromContext(ctx context.Context) (organizationID, staffID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	organizationID, ok := claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return "", "", fmt.Errorf("organization_id claim is missing or invalid")
	}

	staffID, ok = claims["staff_id"].(string)
	if !ok || staffID == "" {
		return "", "", fmt.Errorf("staff_id claim is missing or invalid")
	}

	return organizationID, staffID, nil
}

// recordDateFor truncates an instant to the tenant-local calendar day, stored
// as a date-only value.
func recordDateFor(at time.Time, settings organization.Settings) time.Time {
	local := at.In(settings.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// deriveClockInStatus compares the clock-in instant against the scheduled
// shift start plus grace period. Absent a configured schedule every clock-in
// is on time.
func deriveClockInStatus(at time.Time, day time.Time, settings organization.Settings) attendance.Status {
	start := settings.ShiftStartOn(day)
	if start == nil {
		return attendance.StatusNormal
	}
	grace := time.Duration(settings.GracePeriodMinutes) * time.Minute
	if at.After(start.Add(grace)) {
		return attendance.StatusLate
	}
	return attendance.StatusNormal
}

// deriveClockOutStatus upgrades the day status to early_leave when the
// clock-out precedes the scheduled end beyond the grace period. Late takes
// precedence for the single summary field; both facts remain derivable from
// the raw timestamps.
func deriveClockOutStatus(current attendance.Status, at time.Time, day time.Time, settings organization.Settings) attendance.Status {
	end := settings.ShiftEndOn(day)
	if end == nil {
		return current
	}
	grace := time.Duration(settings.GracePeriodMinutes) * time.Minute
	if at.Before(end.Add(-grace)) && current != attendance.StatusLate {
		return attendance.StatusEarlyLeave
	}
	return current
}

// classifyCapture runs the geofence check for one clock event. A nil payload
// or missing fence yields a nil flag and never blocks the event.
func classifyCapture(payload *attendance.LocationPayload, settings organization.Settings) (capture *geo.Capture, result geo.Result) {
	if payload != nil {
		capture = &geo.Capture{
			Latitude:       payload.Latitude,
			Longitude:      payload.Longitude,
			AccuracyMeters: payload.AccuracyMeters,
		}
	}
	result = geo.Classify(capture, settings.Geofence())
	return capture, result
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.RecordResponse, error) {
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

	nowUTC := a.now().UTC()
	day := recordDateFor(nowUTC, settings)
	status := deriveClockInStatus(nowUTC, day, settings)

	capture, geoResult := classifyCapture(req.Location, settings)

	record := attendance.Record{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		StaffID:        staffID,
		RecordDate:     day,
		ClockIn:        &nowUTC,
		Status:         status,
	}
	if capture != nil {
		record.ClockInLatitude = &capture.Latitude
		record.ClockInLongitude = &capture.Longitude
		record.ClockInAccuracyMeters = &capture.AccuracyMeters
	}
	record.ClockInWithinFence = geoResult.WithinGeofence

	created, err := a.attendanceRepo.ClockIn(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.RecordResponse, error) {
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

	nowUTC := a.now().UTC()
	day := recordDateFor(nowUTC, settings)

	existing, err := a.attendanceRepo.GetByStaffAndDate(ctx, organizationID, staffID, day)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance record: %w", err)
	}
	if existing == nil || existing.ClockIn == nil {
		return attendance.RecordResponse{}, attendance.ErrNotClockedIn
	}
	if existing.ClockOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyClockedOut
	}

	// The out-event is classified independently of the in-event; a staff
	// member may be on-site at entry and off-site at exit or vice versa.
	capture, geoResult := classifyCapture(req.Location, settings)

	update := attendance.ClockOutUpdate{
		ClockOut:    nowUTC,
		WithinFence: geoResult.WithinGeofence,
		Status:      deriveClockOutStatus(existing.Status, nowUTC, day, settings),
	}
	if capture != nil {
		update.Latitude = &capture.Latitude
		update.Longitude = &capture.Longitude
		update.AccuracyMeters = &capture.AccuracyMeters
	}

	updated, err := a.attendanceRepo.ClockOut(ctx, organizationID, staffID, day, update)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(updated), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	organizationID, staffID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	settings, err := a.settingsRepo.GetByID(ctx, organizationID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	day := recordDateFor(a.now().UTC(), settings)

	existing, err := a.attendanceRepo.GetByStaffAndDate(ctx, organizationID, staffID, day)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance record: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:       day.Format("2006-01-02"),
		CanClockIn: existing == nil || existing.ClockIn == nil,
	}
	if existing != nil {
		record := toRecordResponse(*existing)
		resp.HasRecord = true
		resp.Record = &record
		resp.CanClockOut = existing.ClockIn != nil && existing.ClockOut == nil
	}

	return resp, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                  rec.ID,
		StaffID:             rec.StaffID,
		Date:                rec.RecordDate.Format("2006-01-02"),
		ClockIn:             timePtrToString(rec.ClockIn),
		ClockOut:            timePtrToString(rec.ClockOut),
		ClockInLatitude:     rec.ClockInLatitude,
		ClockInLongitude:    rec.ClockInLongitude,
		ClockOutLatitude:    rec.ClockOutLatitude,
		ClockOutLongitude:   rec.ClockOutLongitude,
		ClockInWithinFence:  rec.ClockInWithinFence,
		ClockOutWithinFence: rec.ClockOutWithinFence,
		Status:              string(rec.Status),
		IsManualEntry:       rec.IsManualEntry,
		ManualReason:        rec.ManualReason,
		ApprovalStatus:      string(rec.ApprovalStatus),
		ApproverID:          rec.ApproverID,
		ApprovedAt:          timePtrToString(rec.ApprovedAt),
		ReviewNote:          rec.ReviewNote,
		CreatedAt:           rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           rec.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if rec.ClockInAccuracyMeters != nil {
		tier := string(geo.TierFor(*rec.ClockInAccuracyMeters))
		resp.PrecisionTier = &tier
	}

	return resp
}

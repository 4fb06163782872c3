package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
	"github.com/medikarte/clinic-backend-go/internal/domain/staff"
	"github.com/medikarte/clinic-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceRepo mirrors the conditional-write semantics of the
// PostgreSQL repository so the service state machine can be exercised
// without a database.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Record // org|staff|date
	byID    map[string]*attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records: make(map[string]*attendance.Record),
		byID:    make(map[string]*attendance.Record),
	}
}

func dayKey(organizationID, staffID string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", organizationID, staffID, date.Format("2006-01-02"))
}

func (f *fakeAttendanceRepo) ClockIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := dayKey(record.OrganizationID, record.StaffID, record.RecordDate)
	existing := f.records[key]
	if existing == nil {
		record.IsManualEntry = false
		record.ApprovalStatus = attendance.ApprovalApproved
		record.CreatedAt = time.Now().UTC()
		record.UpdatedAt = record.CreatedAt
		stored := record
		f.records[key] = &stored
		f.byID[record.ID] = &stored
		return stored, nil
	}

	if existing.ClockIn != nil {
		return attendance.Record{}, attendance.ErrAlreadyClockedIn
	}

	existing.ClockIn = record.ClockIn
	existing.ClockInLatitude = record.ClockInLatitude
	existing.ClockInLongitude = record.ClockInLongitude
	existing.ClockInAccuracyMeters = record.ClockInAccuracyMeters
	existing.ClockInWithinFence = record.ClockInWithinFence
	existing.Status = record.Status
	existing.UpdatedAt = time.Now().UTC()
	return *existing, nil
}

func (f *fakeAttendanceRepo) ClockOut(ctx context.Context, organizationID, staffID string, date time.Time, update attendance.ClockOutUpdate) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.records[dayKey(organizationID, staffID, date)]
	if existing == nil || existing.ClockIn == nil {
		return attendance.Record{}, attendance.ErrNotClockedIn
	}
	if existing.ClockOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyClockedOut
	}

	out := update.ClockOut
	existing.ClockOut = &out
	existing.ClockOutLatitude = update.Latitude
	existing.ClockOutLongitude = update.Longitude
	existing.ClockOutAccuracyMeters = update.AccuracyMeters
	existing.ClockOutWithinFence = update.WithinFence
	existing.Status = update.Status
	existing.UpdatedAt = time.Now().UTC()
	return *existing, nil
}

func (f *fakeAttendanceRepo) UpsertCorrection(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := dayKey(record.OrganizationID, record.StaffID, record.RecordDate)
	existing := f.records[key]
	if existing == nil {
		record.CreatedAt = time.Now().UTC()
		record.UpdatedAt = record.CreatedAt
		stored := record
		f.records[key] = &stored
		f.byID[record.ID] = &stored
		return stored, nil
	}

	if existing.ApprovalStatus == attendance.ApprovalApproved && !existing.IsManualEntry {
		return attendance.Record{}, attendance.ErrAlreadyApproved
	}

	existing.ClockIn = record.ClockIn
	existing.ClockOut = record.ClockOut
	existing.Status = record.Status
	existing.IsManualEntry = true
	existing.ManualReason = record.ManualReason
	existing.ApprovalStatus = attendance.ApprovalPending
	existing.ApproverID = nil
	existing.ApprovedAt = nil
	existing.ReviewNote = nil
	existing.UpdatedAt = time.Now().UTC()
	return *existing, nil
}

func (f *fakeAttendanceRepo) Decide(ctx context.Context, recordID, organizationID string, decision attendance.Decision) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.byID[recordID]
	if existing == nil || existing.OrganizationID != organizationID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if existing.ApprovalStatus != attendance.ApprovalPending {
		return attendance.Record{}, attendance.ErrNotPending
	}

	existing.ApprovalStatus = decision.Status
	approverID := decision.ApproverID
	existing.ApproverID = &approverID
	at := decision.DecidedAt
	existing.ApprovedAt = &at
	existing.ReviewNote = decision.Note
	existing.UpdatedAt = time.Now().UTC()
	return *existing, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, recordID, organizationID string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.byID[recordID]
	if existing == nil || existing.OrganizationID != organizationID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return *existing, nil
}

func (f *fakeAttendanceRepo) GetByStaffAndDate(ctx context.Context, organizationID, staffID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.records[dayKey(organizationID, staffID, date)]
	if existing == nil {
		return nil, nil
	}
	copied := *existing
	return &copied, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, organizationID string, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Record
	for _, rec := range f.records {
		if rec.OrganizationID != organizationID {
			continue
		}
		if filter.StaffID != nil && rec.StaffID != *filter.StaffID {
			continue
		}
		if filter.ApprovalStatus != nil && string(rec.ApprovalStatus) != *filter.ApprovalStatus {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListForMonth(ctx context.Context, organizationID, staffID string, year int, month time.Month) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Record
	for _, rec := range f.records {
		if rec.OrganizationID != organizationID || rec.StaffID != staffID {
			continue
		}
		if rec.RecordDate.Year() == year && rec.RecordDate.Month() == month {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListPending(ctx context.Context, organizationID string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Record
	for _, rec := range f.records {
		if rec.OrganizationID == organizationID && rec.ApprovalStatus == attendance.ApprovalPending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings organization.Settings
}

func (f *fakeSettingsRepo) GetByID(ctx context.Context, organizationID string) (organization.Settings, error) {
	settings := f.settings
	settings.ID = organizationID
	return settings, nil
}

func strPtr(s string) *string { return &s }

// clinicSettings is a tenant with a 09:00-18:00 shift, 5 minute grace and
// weekends off.
func clinicSettings() organization.Settings {
	return organization.Settings{
		Name:               "Sakura Clinic",
		Timezone:           "UTC",
		ShiftStart:         strPtr("09:00"),
		ShiftEnd:           strPtr("18:00"),
		GracePeriodMinutes: 5,
		WeeklyOffDays:      []int{0, 6},
	}
}

func newTestService(settings organization.Settings) (*AttendanceServiceImpl, *fakeAttendanceRepo) {
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, &fakeSettingsRepo{settings: settings})
	return svc, repo
}

const (
	testOrgID      = "4f9f6f1a-8f2a-4f43-9a0d-111111111111"
	testStaffID    = "4f9f6f1a-8f2a-4f43-9a0d-222222222222"
	testApproverID = "4f9f6f1a-8f2a-4f43-9a0d-333333333333"
)

// authedContext issues a real access token through the token service and
// plants it the way the Verifier middleware would.
func authedContext(t *testing.T, organizationID, staffID, role string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	tokenString, _, err := svc.GenerateAccessToken(staffID, organizationID, staff.Role(role))
	require.NoError(t, err)
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// seedPending plants a pending manual entry directly in the fake store.
func seedPending(repo *fakeAttendanceRepo, organizationID, staffID string, date time.Time) attendance.Record {
	clockIn := date.Add(9 * time.Hour)
	reason := "forgot to clock in"
	rec := attendance.Record{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		StaffID:        staffID,
		RecordDate:     date,
		ClockIn:        &clockIn,
		Status:         attendance.StatusNormal,
		IsManualEntry:  true,
		ManualReason:   &reason,
		ApprovalStatus: attendance.ApprovalPending,
	}
	stored := rec
	repo.records[dayKey(organizationID, staffID, date)] = &stored
	repo.byID[rec.ID] = &stored
	return rec
}

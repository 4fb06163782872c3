package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `
	id, organization_id, staff_id, record_date,
	clock_in, clock_out,
	clock_in_latitude, clock_in_longitude, clock_in_accuracy_meters,
	clock_out_latitude, clock_out_longitude, clock_out_accuracy_meters,
	clock_in_within_fence, clock_out_within_fence,
	status, is_manual_entry, manual_reason,
	approval_status, approver_id, approved_at, review_note,
	created_at, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status, approvalStatus string
	err := row.Scan(
		&rec.ID, &rec.OrganizationID, &rec.StaffID, &rec.RecordDate,
		&rec.ClockIn, &rec.ClockOut,
		&rec.ClockInLatitude, &rec.ClockInLongitude, &rec.ClockInAccuracyMeters,
		&rec.ClockOutLatitude, &rec.ClockOutLongitude, &rec.ClockOutAccuracyMeters,
		&rec.ClockInWithinFence, &rec.ClockOutWithinFence,
		&status, &rec.IsManualEntry, &rec.ManualReason,
		&approvalStatus, &rec.ApproverID, &rec.ApprovedAt, &rec.ReviewNote,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.Status(status)
	rec.ApprovalStatus = attendance.ApprovalStatus(approvalStatus)
	return rec, nil
}

// ClockIn implements attendance.AttendanceRepository.
//
// The unique (organization_id, staff_id, record_date) key plus the
// conditional DO UPDATE make this a single atomic claim of the day's
// clock-in: a concurrent second call conflicts, fails the WHERE guard and
// returns zero rows.
func (a *attendanceRepository) ClockIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, organization_id, staff_id, record_date,
			clock_in, clock_in_latitude, clock_in_longitude, clock_in_accuracy_meters,
			clock_in_within_fence, status, is_manual_entry, approval_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, 'approved'
		)
		ON CONFLICT (organization_id, staff_id, record_date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_in_latitude = EXCLUDED.clock_in_latitude,
			clock_in_longitude = EXCLUDED.clock_in_longitude,
			clock_in_accuracy_meters = EXCLUDED.clock_in_accuracy_meters,
			clock_in_within_fence = EXCLUDED.clock_in_within_fence,
			status = EXCLUDED.status,
			updated_at = NOW()
		WHERE attendance_records.clock_in IS NULL
		RETURNING ` + recordColumns

	row := q.QueryRow(ctx, query,
		record.ID,
		record.OrganizationID,
		record.StaffID,
		record.RecordDate,
		record.ClockIn,
		record.ClockInLatitude,
		record.ClockInLongitude,
		record.ClockInAccuracyMeters,
		record.ClockInWithinFence,
		string(record.Status),
	)

	created, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to clock in: %w", err)
	}

	return created, nil
}

// ClockOut implements attendance.AttendanceRepository.
//
// The update and the zero-row disambiguation read run in one transaction so
// the reported reason reflects the row state the update actually saw.
func (a *attendanceRepository) ClockOut(ctx context.Context, organizationID, staffID string, date time.Time, update attendance.ClockOutUpdate) (attendance.Record, error) {
	query := `
		UPDATE attendance_records SET
			clock_out = $4,
			clock_out_latitude = $5,
			clock_out_longitude = $6,
			clock_out_accuracy_meters = $7,
			clock_out_within_fence = $8,
			status = $9,
			updated_at = NOW()
		WHERE organization_id = $1
		  AND staff_id = $2
		  AND record_date = $3
		  AND clock_in IS NOT NULL
		  AND clock_out IS NULL
		RETURNING ` + recordColumns

	var updated attendance.Record
	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			organizationID,
			staffID,
			date,
			update.ClockOut,
			update.Latitude,
			update.Longitude,
			update.AccuracyMeters,
			update.WithinFence,
			string(update.Status),
		)

		rec, err := scanRecord(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyClockOutFailure(ctx, tx, organizationID, staffID, date)
			}
			return fmt.Errorf("failed to clock out: %w", err)
		}

		updated = rec
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return updated, nil
}

// classifyClockOutFailure disambiguates a zero-row clock-out update.
func classifyClockOutFailure(ctx context.Context, q database.Querier, organizationID, staffID string, date time.Time) error {
	var clockIn *time.Time
	err := q.QueryRow(ctx, `
		SELECT clock_in FROM attendance_records
		WHERE organization_id = $1 AND staff_id = $2 AND record_date = $3`,
		organizationID, staffID, date).Scan(&clockIn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrNotClockedIn
		}
		return fmt.Errorf("failed to classify clock-out failure: %w", err)
	}
	if clockIn == nil {
		return attendance.ErrNotClockedIn
	}
	return attendance.ErrAlreadyClockedOut
}

// UpsertCorrection implements attendance.AttendanceRepository.
//
// The WHERE guard refuses to rewrite an approved live record; approved manual
// entries and pending proposals are amended in place and reset to pending.
func (a *attendanceRepository) UpsertCorrection(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, organization_id, staff_id, record_date,
			clock_in, clock_out, status,
			is_manual_entry, manual_reason, approval_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, true, $8, 'pending'
		)
		ON CONFLICT (organization_id, staff_id, record_date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			status = EXCLUDED.status,
			is_manual_entry = true,
			manual_reason = EXCLUDED.manual_reason,
			approval_status = 'pending',
			approver_id = NULL,
			approved_at = NULL,
			review_note = NULL,
			updated_at = NOW()
		WHERE NOT (attendance_records.approval_status = 'approved'
		           AND attendance_records.is_manual_entry = false)
		RETURNING ` + recordColumns

	row := q.QueryRow(ctx, query,
		record.ID,
		record.OrganizationID,
		record.StaffID,
		record.RecordDate,
		record.ClockIn,
		record.ClockOut,
		string(record.Status),
		record.ManualReason,
	)

	upserted, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyApproved
		}
		return attendance.Record{}, fmt.Errorf("failed to upsert correction: %w", err)
	}

	return upserted, nil
}

// Decide implements attendance.AttendanceRepository.
//
// Precondition check and write happen in one conditional update; of two
// concurrent reviewers exactly one wins, the other observes ErrNotPending.
func (a *attendanceRepository) Decide(ctx context.Context, recordID, organizationID string, decision attendance.Decision) (attendance.Record, error) {
	query := `
		UPDATE attendance_records SET
			approval_status = $3,
			approver_id = $4,
			approved_at = $5,
			review_note = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND organization_id = $2
		  AND approval_status = 'pending'
		RETURNING ` + recordColumns

	var decided attendance.Record
	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, recordID, organizationID, string(decision.Status), decision.ApproverID, decision.DecidedAt, decision.Note)

		rec, err := scanRecord(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyDecideFailure(ctx, tx, recordID, organizationID)
			}
			return fmt.Errorf("failed to decide attendance record: %w", err)
		}

		decided = rec
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return decided, nil
}

func classifyDecideFailure(ctx context.Context, q database.Querier, recordID, organizationID string) error {
	var status string
	err := q.QueryRow(ctx, `
		SELECT approval_status FROM attendance_records
		WHERE id = $1 AND organization_id = $2`,
		recordID, organizationID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to classify decide failure: %w", err)
	}
	return attendance.ErrNotPending
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, recordID, organizationID string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE id = $1 AND organization_id = $2`

	rec, err := scanRecord(q.QueryRow(ctx, query, recordID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStaffAndDate(ctx context.Context, organizationID, staffID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE organization_id = $1 AND staff_id = $2 AND record_date = $3
		LIMIT 1`

	rec, err := scanRecord(q.QueryRow(ctx, query, organizationID, staffID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No record for the day
		}
		return nil, fmt.Errorf("failed to get attendance record by staff and date: %w", err)
	}

	return &rec, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, organizationID string, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "organization_id = $1"
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.StaffID != nil && *filter.StaffID != "" {
		baseWhere += fmt.Sprintf(" AND staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND record_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND record_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.ApprovalStatus != nil && *filter.ApprovalStatus != "" {
		baseWhere += fmt.Sprintf(" AND approval_status = $%d", argIdx)
		args = append(args, *filter.ApprovalStatus)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Sort fields are validated against an allow-list in ListFilter.Validate,
	// never interpolated from raw user input.
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		recordColumns, baseWhere, filter.SortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// ListForMonth implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForMonth(ctx context.Context, organizationID, staffID string, year int, month time.Month) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE organization_id = $1
		  AND staff_id = $2
		  AND record_date >= $3
		  AND record_date < $4
		ORDER BY record_date ASC`

	rows, err := q.Query(ctx, query, organizationID, staffID, monthStart, nextMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records for month: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// ListPending implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListPending(ctx context.Context, organizationID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE organization_id = $1
		  AND approval_status = 'pending'
		ORDER BY record_date ASC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

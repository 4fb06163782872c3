package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
)

// MonthlyStats implements attendance.AttendanceService.
//
// Every figure is recomputed from the month's raw records on each call; the
// ledger is the single source of truth and no running total is stored.
// Rejected manual entries are excluded from all counts. Days without any
// record are absent at read time only, never materialized as rows.
func (a *AttendanceServiceImpl) MonthlyStats(ctx context.Context, req attendance.MonthlyStatsRequest) (attendance.MonthlyStatsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlyStatsResponse{}, err
	}

	organizationID, _, err := identityFromContext(ctx)
	if err != nil {
		return attendance.MonthlyStatsResponse{}, err
	}

	settings, err := a.settingsRepo.GetByID(ctx, organizationID)
	if err != nil {
		return attendance.MonthlyStatsResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	records, err := a.attendanceRepo.ListForMonth(ctx, organizationID, req.StaffID, req.Year, time.Month(req.Month))
	if err != nil {
		return attendance.MonthlyStatsResponse{}, err
	}

	stats := aggregateMonth(records, settings, req.Year, time.Month(req.Month), a.now().UTC())
	stats.StaffID = req.StaffID
	stats.Year = req.Year
	stats.Month = req.Month

	return stats, nil
}

// aggregateMonth derives the monthly figures from the raw record set. Pure:
// same records, settings and clock always produce the same result.
func aggregateMonth(records []attendance.Record, settings organization.Settings, year int, month time.Month, nowUTC time.Time) attendance.MonthlyStatsResponse {
	var stats attendance.MonthlyStatsResponse

	for _, rec := range records {
		if !rec.CountsTowardAggregates() {
			continue
		}

		if rec.ClockIn != nil {
			stats.PresentDays++
		}

		switch rec.Status {
		case attendance.StatusLate:
			stats.LateDays++
		case attendance.StatusEarlyLeave:
			stats.EarlyLeaveDays++
		case attendance.StatusLeave:
			// Only granted leave excuses an absence; a proposal still
			// awaiting review must not reduce the absent count.
			if rec.ApprovalStatus == attendance.ApprovalApproved {
				stats.LeaveDays++
			}
		}

		if rec.IsApprovedMakeUp() {
			stats.MakeUpDays++
		}

		if rec.ClockIn != nil && rec.ClockOut != nil {
			if end := settings.ShiftEndOn(rec.RecordDate); end != nil {
				if overtime := rec.ClockOut.Sub(*end); overtime > 0 {
					stats.OvertimeHours += overtime.Hours()
				}
			}
		}
	}

	stats.AbsentDays = elapsedWorkingDays(settings, year, month, nowUTC) - stats.PresentDays - stats.LeaveDays
	if stats.AbsentDays < 0 {
		stats.AbsentDays = 0
	}

	return stats
}

// elapsedWorkingDays counts the month's calendar days up to today in the
// tenant timezone, skipping configured weekly off-days. A month entirely in
// the future contributes zero.
func elapsedWorkingDays(settings organization.Settings, year int, month time.Month, nowUTC time.Time) int {
	loc := settings.Location()
	nowLocal := nowUTC.In(loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	for day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); day.Month() == month; day = day.AddDate(0, 0, 1) {
		if day.After(today) {
			break
		}
		if settings.IsOffDay(day) {
			continue
		}
		count++
	}
	return count
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.ListFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	organizationID, _, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.attendanceRepo.List(ctx, organizationID, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"golang.org/x/sync/errgroup"
)

// batchConcurrency caps the fan-out of approve-all. Items touch independent
// rows, so they may run concurrently; each item's review stays the atomic
// conditional update of Decide.
const batchConcurrency = 8

// ApproveAll implements attendance.AttendanceService.
//
// Best-effort batch: every pending record of the organization is approved
// independently, and per-item failures become data in the result instead of
// aborting the run. Partial success is expected under concurrent review.
func (a *AttendanceServiceImpl) ApproveAll(ctx context.Context) (attendance.BatchApprovalResult, error) {
	organizationID, approverID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.BatchApprovalResult{}, err
	}

	pending, err := a.attendanceRepo.ListPending(ctx, organizationID)
	if err != nil {
		return attendance.BatchApprovalResult{}, err
	}

	result := attendance.BatchApprovalResult{
		Failures: []attendance.BatchApprovalFailure{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, rec := range pending {
		rec := rec // per-iteration copy; required while the go directive is below 1.22
		g.Go(func() error {
			err := a.approveOne(gctx, rec, approverID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedCount++
				result.Failures = append(result.Failures, attendance.BatchApprovalFailure{
					RecordID: rec.ID,
					Reason:   failureReason(err),
				})
				return nil // failures are data, never abort the batch
			}
			result.SucceededCount++
			return nil
		})
	}

	// Goroutines only ever return nil; Wait is for completion, not errors.
	_ = g.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].RecordID < result.Failures[j].RecordID
	})

	return result, nil
}

func (a *AttendanceServiceImpl) approveOne(ctx context.Context, rec attendance.Record, approverID string) error {
	// Same self-review guard as the single-item path.
	if rec.StaffID == approverID {
		return attendance.ErrUnauthorized
	}

	_, err := a.attendanceRepo.Decide(ctx, rec.ID, rec.OrganizationID, attendance.Decision{
		Status:     attendance.ApprovalApproved,
		ApproverID: approverID,
		DecidedAt:  a.now().UTC(),
	})
	return err
}

// failureReason converts a per-item error into the stable reason token
// reported to callers.
func failureReason(err error) string {
	switch {
	case errors.Is(err, attendance.ErrNotPending):
		return "NotPending"
	case errors.Is(err, attendance.ErrRecordNotFound):
		return "RecordNotFound"
	case errors.Is(err, attendance.ErrUnauthorized):
		return "Unauthorized"
	default:
		return err.Error()
	}
}

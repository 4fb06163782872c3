package response

import (
	"errors"
	"net/http"

	"github.com/medikarte/clinic-backend-go/internal/domain/attendance"
	"github.com/medikarte/clinic-backend-go/internal/domain/organization"
	"github.com/medikarte/clinic-backend-go/internal/domain/staff"
	"github.com/medikarte/clinic-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock state machine errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "Not clocked in yet")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out")

	// Correction / approval errors
	case errors.Is(err, attendance.ErrAlreadyApproved):
		Conflict(w, "Attendance record is already approved and cannot be corrected")
	case errors.Is(err, attendance.ErrNotPending):
		Conflict(w, "Attendance record is not awaiting review")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this attendance record")

	// Collaborator errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, staff.ErrApproverAccessRequired):
		Forbidden(w, "Approver access required")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

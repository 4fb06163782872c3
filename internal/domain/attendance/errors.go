package attendance

import "errors"

// Attendance domain errors
var (
	// Clock state machine errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")

	// Correction / approval errors
	ErrAlreadyApproved = errors.New("attendance record is already approved and cannot be corrected")
	ErrNotPending      = errors.New("attendance record is not awaiting review")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrUnauthorized   = errors.New("unauthorized to access this attendance record")
)

package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("invalid attendance status")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrClockOutNotAfterIn = errors.New("clock out must be later than clock in")
	ErrTeamMemberNotFound = errors.New("team member not found")

	ErrHoursWithClockTimes = errors.New("hours_worked is computed from clock times; clear them to enter hours")
)

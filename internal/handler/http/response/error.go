package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/latest"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrMissingSession):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrTeamMemberNotFound):
		NotFound(w, "Team member not found")
	case errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrInvalidTimeOfDay),
		errors.Is(err, attendance.ErrClockOutNotAfterIn):
		BadRequest(w, err.Error(), nil)

	// Team member domain errors
	case errors.Is(err, teammember.ErrTeamMemberNotFound):
		NotFound(w, "Team member not found")
	case errors.Is(err, teammember.ErrNameExists):
		Conflict(w, "A team member with this name already exists")

	// Report domain errors
	case errors.Is(err, latest.ErrSuperseded):
		Superseded(w)
	case errors.Is(err, report.ErrInvalidReportType),
		errors.Is(err, report.ErrInvalidExportFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrMalformedRecord):
		slog.Error("Malformed attendance data", "error", err)
		InternalServerError(w, "Stored attendance data is malformed")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

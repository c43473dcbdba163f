package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CreateAttendanceRequest struct {
	TeamMemberID string   `json:"team_member_id"`
	Date         string   `json:"date"` // YYYY-MM-DD
	Status       string   `json:"status"`
	ClockInTime  *string  `json:"clock_in_time,omitempty"`  // HH:MM
	ClockOutTime *string  `json:"clock_out_time,omitempty"` // HH:MM
	HoursWorked  *float64 `json:"hours_worked,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TeamMemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_member_id",
			Message: "team_member_id is required",
		})
	} else if !validator.IsValidUUID(r.TeamMemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_member_id",
			Message: "team_member_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	errs = append(errs, validateStatusAndTimes(&r.Status, r.ClockInTime, r.ClockOutTime, r.HoursWorked)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateAttendanceRequest fixes a recorded day. Nil fields keep their stored value.
type UpdateAttendanceRequest struct {
	ID           string   `json:"-"`
	Date         *string  `json:"date,omitempty"`
	Status       *string  `json:"status,omitempty"`
	ClockInTime  *string  `json:"clock_in_time,omitempty"`
	ClockOutTime *string  `json:"clock_out_time,omitempty"`
	HoursWorked  *float64 `json:"hours_worked,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	errs = append(errs, validateStatusAndTimes(r.Status, r.ClockInTime, r.ClockOutTime, r.HoursWorked)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateStatusAndTimes checks the fields shared by create and update.
// A nil status is only possible on update and skips the status check.
func validateStatusAndTimes(status *string, clockIn, clockOut *string, hours *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if status != nil {
		if !Status(*status).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + statusList(),
			})
		}
	}

	// An empty clock time clears it on update and is absent on create.
	hasIn := clockIn != nil && *clockIn != ""
	hasOut := clockOut != nil && *clockOut != ""

	validIn := hasIn && validator.IsValidTimeOfDay(*clockIn)
	if hasIn && !validIn {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "clock_in_time must be in HH:MM format",
		})
	}

	validOut := hasOut && validator.IsValidTimeOfDay(*clockOut)
	if hasOut && !validOut {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be in HH:MM format",
		})
	}

	if validIn && validOut {
		in, _ := ParseTimeOfDay(*clockIn)
		out, _ := ParseTimeOfDay(*clockOut)
		if !in.Before(out) {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_time",
				Message: ErrClockOutNotAfterIn.Error(),
			})
		}
	}

	if hours != nil {
		if !ValidEnteredHours(*hours) {
			errs = append(errs, validator.ValidationError{
				Field:   "hours_worked",
				Message: "hours_worked must be at least 0.1 and at most 24",
			})
		} else if hasIn && hasOut {
			errs = append(errs, validator.ValidationError{
				Field:   "hours_worked",
				Message: ErrHoursWithClockTimes.Error(),
			})
		}
	}

	return errs
}

// ValidEnteredHours reports whether hand-entered hours stay within (0, 24]
// once rounded to the stored single decimal.
func ValidEnteredHours(h float64) bool {
	rounded := decimal.NewFromFloat(h).Round(1)
	return rounded.IsPositive() && rounded.LessThanOrEqual(decimal.NewFromInt(24))
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

type ListAttendanceRequest struct {
	TeamMemberID *string `json:"team_member_id,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TeamMemberID != nil && *r.TeamMemberID != "" && !validator.IsValidUUID(*r.TeamMemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_member_id",
			Message: "team_member_id must be a valid UUID",
		})
	}

	errs = append(errs, ValidateDateRange(r.StartDate, r.EndDate)...)

	if r.Status != nil && *r.Status != "" && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + statusList(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToFilter converts a validated request into a repository filter.
func (r *ListAttendanceRequest) ToFilter() Filter {
	filter := FilterFromParams(r.StartDate, r.EndDate, r.TeamMemberID)
	if r.Status != nil && *r.Status != "" {
		st := Status(*r.Status)
		filter.Status = &st
	}
	return filter
}

// ValidateDateRange checks optional inclusive YYYY-MM-DD bounds.
func ValidateDateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var start, end time.Time
	var hasStart, hasEnd bool

	if startDate != nil && *startDate != "" {
		start, hasStart = validator.IsValidDate(*startDate)
		if !hasStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if endDate != nil && *endDate != "" {
		end, hasEnd = validator.IsValidDate(*endDate)
		if !hasEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}

// FilterFromParams builds a Filter from already validated string params.
// Empty strings are treated as absent.
func FilterFromParams(startDate, endDate, teamMemberID *string) Filter {
	var filter Filter
	if startDate != nil && *startDate != "" {
		if t, ok := validator.IsValidDate(*startDate); ok {
			filter.StartDate = &t
		}
	}
	if endDate != nil && *endDate != "" {
		if t, ok := validator.IsValidDate(*endDate); ok {
			filter.EndDate = &t
		}
	}
	if teamMemberID != nil && *teamMemberID != "" {
		id := *teamMemberID
		filter.TeamMemberID = &id
	}
	return filter
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	TeamMemberID   string   `json:"team_member_id"`
	TeamMemberName string   `json:"team_member_name"`
	Date           string   `json:"date"`
	Status         string   `json:"status"`
	ClockInTime    *string  `json:"clock_in_time,omitempty"`
	ClockOutTime   *string  `json:"clock_out_time,omitempty"`
	HoursWorked    *float64 `json:"hours_worked"`
	Description    *string  `json:"description,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

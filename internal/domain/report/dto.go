package report

import (
	"encoding/json"
	"strings"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ReportType selects the bucketing granularity of an attendance report.
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}

// Hours is a worked-hours quantity rendered with exactly one decimal digit.
type Hours struct {
	decimal.Decimal
}

func NewHours(d decimal.Decimal) Hours {
	return Hours{Decimal: d.Round(1)}
}

func (h Hours) String() string {
	return h.StringFixed(1)
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return []byte(h.StringFixed(1)), nil
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReportRequest struct {
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	TeamMemberID *string `json:"team_member_id,omitempty"`
	ReportType   string  `json:"report_type"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ReportType == "" {
		r.ReportType = string(ReportDaily)
	}
	r.ReportType = strings.ToLower(r.ReportType)
	if !ReportType(r.ReportType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "report_type",
			Message: ErrInvalidReportType.Error(),
		})
	}

	if r.TeamMemberID != nil && *r.TeamMemberID != "" && !validator.IsValidUUID(*r.TeamMemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_member_id",
			Message: "team_member_id must be a valid UUID",
		})
	}

	errs = append(errs, attendance.ValidateDateRange(r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter converts a validated request into the fetch filter.
func (r *AttendanceReportRequest) Filter() attendance.Filter {
	return attendance.FilterFromParams(r.StartDate, r.EndDate, r.TeamMemberID)
}

// DailyRow is one record rendered for the daily report.
type DailyRow struct {
	Period         string            `json:"period"`
	TeamMemberName string            `json:"team_member_name"`
	Status         attendance.Status `json:"status"`
	HoursWorked    *Hours            `json:"hours_worked"`
	Description    *string           `json:"description"`
}

// PeriodRow accumulates one member's records within one week or month.
type PeriodRow struct {
	Period         string `json:"period"`
	PeriodStart    string `json:"period_start"` // YYYY-MM-DD anchor
	TeamMemberName string `json:"team_member_name"`
	PresentDays    int    `json:"present_days"`
	AbsentDays     int    `json:"absent_days"`
	LeaveDays      int    `json:"leave_days"`
	SickDays       int    `json:"sick_days"`
	HolidayDays    int    `json:"holiday_days"`
	TotalHours     Hours  `json:"total_hours"`
}

// TotalDays is the number of records folded into the row.
func (r PeriodRow) TotalDays() int {
	return r.PresentDays + r.AbsentDays + r.LeaveDays + r.SickDays + r.HolidayDays
}

// AttendanceReport holds rows in the shape selected by ReportType: Daily for
// daily reports, Periods for weekly and monthly ones.
type AttendanceReport struct {
	ReportType  ReportType  `json:"report_type"`
	Sequence    uint64      `json:"sequence,omitempty"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	Daily       []DailyRow  `json:"daily,omitempty"`
	Periods     []PeriodRow `json:"periods,omitempty"`
}

// MarshalJSON always writes the active shape's rows, as [] when empty, and
// leaves the other shape out.
func (r AttendanceReport) MarshalJSON() ([]byte, error) {
	out := struct {
		ReportType  ReportType   `json:"report_type"`
		Sequence    uint64       `json:"sequence,omitempty"`
		GeneratedAt string       `json:"generated_at,omitempty"`
		Daily       *[]DailyRow  `json:"daily,omitempty"`
		Periods     *[]PeriodRow `json:"periods,omitempty"`
	}{
		ReportType:  r.ReportType,
		Sequence:    r.Sequence,
		GeneratedAt: r.GeneratedAt,
	}

	if r.ReportType == ReportDaily {
		daily := r.Daily
		if daily == nil {
			daily = []DailyRow{}
		}
		out.Daily = &daily
	} else {
		periods := r.Periods
		if periods == nil {
			periods = []PeriodRow{}
		}
		out.Periods = &periods
	}

	return json.Marshal(out)
}

// Len returns the number of rows in the active shape.
func (r AttendanceReport) Len() int {
	if r.ReportType == ReportDaily {
		return len(r.Daily)
	}
	return len(r.Periods)
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

type ExportRequest struct {
	AttendanceReportRequest
	Format string `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.AttendanceReportRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		} else {
			return err
		}
	}

	if r.Format == "" {
		r.Format = string(ExportCSV)
	}
	r.Format = strings.ToLower(r.Format)
	if !validator.IsInSlice(r.Format, []string{string(ExportCSV), string(ExportXLSX)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: ErrInvalidExportFormat.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Export struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

type ArchivedExport struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Rows     int    `json:"rows"`
}

// ========================================
// STATUS TREND
// ========================================

const (
	DefaultTrendDays = 7
	MaxTrendDays     = 93
)

type StatusTrendRequest struct {
	Days         int     `json:"days"`
	TeamMemberID *string `json:"team_member_id,omitempty"`
}

func (r *StatusTrendRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Days == 0 {
		r.Days = DefaultTrendDays
	}
	if r.Days < 1 || r.Days > MaxTrendDays {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must be between 1 and 93",
		})
	}

	if r.TeamMemberID != nil && *r.TeamMemberID != "" && !validator.IsValidUUID(*r.TeamMemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_member_id",
			Message: "team_member_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatusTrendDay struct {
	Date    string `json:"date"`  // YYYY-MM-DD
	Label   string `json:"label"` // short localized label
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Leave   int    `json:"leave"`
	Sick    int    `json:"sick"`
	Holiday int    `json:"holiday"`
}

type StatusTrend struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Days      []StatusTrendDay `json:"days"`
}

package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	teammember.TeamMemberRepository
	now func() time.Time
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	member, err := a.TeamMemberRepository.GetByID(ctx, session, req.TeamMemberID)
	if err != nil {
		if errors.Is(err, teammember.ErrTeamMemberNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrTeamMemberNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get team member: %w", err)
	}

	date, _ := validator.IsValidDate(req.Date)
	now := a.now().UTC()
	record := attendance.Record{
		UserID:         session.UserID,
		TeamMemberID:   member.ID,
		TeamMemberName: &member.Name,
		Date:           date,
		Status:         attendance.Status(req.Status),
		ClockIn:        parseTimePtr(req.ClockInTime),
		ClockOut:       parseTimePtr(req.ClockOutTime),
		HoursWorked:    hoursPtr(req.HoursWorked),
		Description:    trimmedPtr(req.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	applyWorkedHours(&record)

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	if created.TeamMemberName == nil {
		created.TeamMemberName = &member.Name
	}

	return mapRecordToResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, session, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if req.Date != nil {
		record.Date, _ = validator.IsValidDate(*req.Date)
	}
	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.ClockInTime != nil {
		record.ClockIn = parseTimePtr(req.ClockInTime)
	}
	if req.ClockOutTime != nil {
		record.ClockOut = parseTimePtr(req.ClockOutTime)
	}
	if req.HoursWorked != nil {
		record.HoursWorked = hoursPtr(req.HoursWorked)
	}
	if req.Description != nil {
		record.Description = trimmedPtr(req.Description)
	}

	// Merged fields may disagree even when each request field was valid.
	if record.ClockIn != nil && record.ClockOut != nil {
		if !record.ClockIn.Before(*record.ClockOut) {
			return attendance.AttendanceResponse{}, validator.ValidationErrors{{
				Field:   "clock_out_time",
				Message: attendance.ErrClockOutNotAfterIn.Error(),
			}}
		}
		if req.HoursWorked != nil {
			return attendance.AttendanceResponse{}, validator.ValidationErrors{{
				Field:   "hours_worked",
				Message: attendance.ErrHoursWithClockTimes.Error(),
			}}
		}
	}

	applyWorkedHours(&record)
	record.UpdatedAt = a.now().UTC()

	updated, err := a.AttendanceRepository.Update(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if updated.TeamMemberName == nil {
		updated.TeamMemberName = record.TeamMemberName
	}

	return mapRecordToResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, session, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapRecordToResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, req attendance.ListAttendanceRequest) (attendance.ListAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := a.AttendanceRepository.Fetch(ctx, session, req.ToFilter())
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapRecordToResponse(r))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  len(responses),
		Attendances: responses,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.AttendanceRepository.Delete(ctx, session, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}

// applyWorkedHours keeps hours only for Present records. Hours derive from the
// clock times when both are set; otherwise the entered or last stored value
// stands. Entered hours never coexist with both clock times.
func applyWorkedHours(r *attendance.Record) {
	if r.Status != attendance.StatusPresent {
		r.ClockIn = nil
		r.ClockOut = nil
		r.HoursWorked = nil
		return
	}

	if r.ClockIn != nil && r.ClockOut != nil {
		hours := ComputeHours(*r.ClockIn, *r.ClockOut)
		r.HoursWorked = &hours
	}
}

func mapRecordToResponse(r attendance.Record) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:             r.ID,
		TeamMemberID:   r.TeamMemberID,
		TeamMemberName: r.MemberName(),
		Date:           r.Date.Format("2006-01-02"),
		Status:         string(r.Status),
		Description:    r.Description,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}

	if r.ClockIn != nil {
		s := r.ClockIn.String()
		resp.ClockInTime = &s
	}
	if r.ClockOut != nil {
		s := r.ClockOut.String()
		resp.ClockOutTime = &s
	}
	if r.HoursWorked != nil {
		h := r.HoursWorked.Round(1).InexactFloat64()
		resp.HoursWorked = &h
	}

	return resp
}

func parseTimePtr(s *string) *attendance.TimeOfDay {
	if s == nil || *s == "" {
		return nil
	}
	t, err := attendance.ParseTimeOfDay(*s)
	if err != nil {
		return nil
	}
	return &t
}

func hoursPtr(h *float64) *decimal.Decimal {
	if h == nil {
		return nil
	}
	d := decimal.NewFromFloat(*h).Round(1)
	return &d
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	teamMemberRepo teammember.TeamMemberRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		TeamMemberRepository: teamMemberRepo,
		now:                  time.Now,
	}
}

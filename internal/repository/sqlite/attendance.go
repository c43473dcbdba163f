package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAttendanceRepository(db *sql.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, now: time.Now}
}

const selectAttendance = `
	SELECT
		a.id, a.user_id, a.team_member_id, tm.name,
		a.attendance_date, a.status,
		a.clock_in_time, a.clock_out_time,
		a.hours_worked, a.description,
		a.created_at, a.updated_at
	FROM daily_attendances a
	LEFT JOIN team_members tm ON tm.id = a.team_member_id
`

func scanAttendance(row scanner) (attendance.Record, error) {
	var (
		r                    attendance.Record
		date, status         string
		clockIn, clockOut    *string
		hours                *string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&r.ID, &r.UserID, &r.TeamMemberID, &r.TeamMemberName,
		&date, &status,
		&clockIn, &clockOut,
		&hours, &r.Description,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	if r.Date, err = time.Parse(dateLayout, date); err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: invalid date %q: %w", r.ID, date, err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: %w", r.ID, err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: %w", r.ID, err)
	}

	// Unknown statuses are kept so the aggregator can reject them loudly.
	r.Status = attendance.Status(status)

	if clockIn != nil {
		t, err := attendance.ParseTimeOfDay(*clockIn)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("attendance %s: %w", r.ID, err)
		}
		r.ClockIn = &t
	}
	if clockOut != nil {
		t, err := attendance.ParseTimeOfDay(*clockOut)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("attendance %s: %w", r.ID, err)
		}
		r.ClockOut = &t
	}
	if hours != nil {
		h, err := decimal.NewFromString(*hours)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("attendance %s: invalid hours %q: %w", r.ID, *hours, err)
		}
		r.HoursWorked = &h
	}

	return r, nil
}

func nullableTime(t *attendance.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func nullableHours(h *decimal.Decimal) any {
	if h == nil {
		return nil
	}
	return h.StringFixed(1)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM team_members WHERE id = ? AND user_id = ?`,
		record.TeamMemberID, record.UserID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrTeamMemberNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get team member: %w", err)
	}

	record.ID = uuid.NewString()
	record.TeamMemberName = &name
	if record.CreatedAt.IsZero() {
		record.CreatedAt = a.now()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_attendances (
			id, user_id, team_member_id, attendance_date, status,
			clock_in_time, clock_out_time, hours_worked, description,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.TeamMemberID,
		record.Date.Format(dateLayout), string(record.Status),
		nullableTime(record.ClockIn), nullableTime(record.ClockOut),
		nullableHours(record.HoursWorked), nullableString(record.Description),
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return attendance.Record{}, fmt.Errorf("commit tx: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, session auth.Session, id string) (attendance.Record, error) {
	row := a.db.QueryRowContext(ctx, selectAttendance+` WHERE a.id = ? AND a.user_id = ?`, id, session.UserID)

	record, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return record, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = a.now()
	}

	res, err := a.db.ExecContext(ctx, `
		UPDATE daily_attendances
		SET attendance_date = ?, status = ?,
			clock_in_time = ?, clock_out_time = ?,
			hours_worked = ?, description = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		record.Date.Format(dateLayout), string(record.Status),
		nullableTime(record.ClockIn), nullableTime(record.ClockOut),
		nullableHours(record.HoursWorked), nullableString(record.Description),
		formatTime(record.UpdatedAt),
		record.ID, record.UserID,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if n == 0 {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	return record, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, session auth.Session, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM daily_attendances WHERE id = ? AND user_id = ?`, id, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Fetch implements attendance.AttendanceRepository.
func (a *attendanceRepository) Fetch(ctx context.Context, session auth.Session, filter attendance.Filter) ([]attendance.Record, error) {
	where := "a.user_id = ?"
	args := []any{session.UserID}

	if filter.StartDate != nil {
		where += " AND a.attendance_date >= ?"
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		where += " AND a.attendance_date <= ?"
		args = append(args, filter.EndDate.Format(dateLayout))
	}
	if filter.TeamMemberID != nil && *filter.TeamMemberID != "" {
		where += " AND a.team_member_id = ?"
		args = append(args, *filter.TeamMemberID)
	}
	if filter.Status != nil {
		where += " AND a.status = ?"
		args = append(args, string(*filter.Status))
	}

	rows, err := a.db.QueryContext(ctx,
		selectAttendance+" WHERE "+where+" ORDER BY a.attendance_date DESC, a.created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}

	return records, nil
}

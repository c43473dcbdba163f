package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Clock times travel as "HH:MM" text and hours as numeric text so the
// domain types never pass through float64.
const selectAttendance = `
	SELECT
		a.id, a.user_id, a.team_member_id, tm.name,
		a.attendance_date, a.status,
		to_char(a.clock_in_time, 'HH24:MI'), to_char(a.clock_out_time, 'HH24:MI'),
		a.hours_worked::text, a.description,
		a.created_at, a.updated_at
	FROM daily_attendances a
	LEFT JOIN team_members tm ON tm.id = a.team_member_id
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var (
		r                 attendance.Record
		status            string
		clockIn, clockOut *string
		hours             *string
	)

	err := row.Scan(
		&r.ID, &r.UserID, &r.TeamMemberID, &r.TeamMemberName,
		&r.Date, &status,
		&clockIn, &clockOut,
		&hours, &r.Description,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	return decodeAttendance(r, status, clockIn, clockOut, hours)
}

func decodeAttendance(r attendance.Record, status string, clockIn, clockOut, hours *string) (attendance.Record, error) {
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

func encodeTime(t *attendance.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func encodeHours(h *decimal.Decimal) *string {
	if h == nil {
		return nil
	}
	s := h.StringFixed(1)
	return &s
}

// Create implements attendance.AttendanceRepository. The team member is
// locked for the insert so it cannot be deleted or reassigned mid-write.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		var name string
		err := q.QueryRow(ctx,
			`SELECT name FROM team_members WHERE id = $1 AND user_id = $2 FOR SHARE`,
			record.TeamMemberID, record.UserID,
		).Scan(&name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrTeamMemberNotFound
			}
			return fmt.Errorf("failed to get team member: %w", err)
		}
		record.TeamMemberName = &name

		query := `
			INSERT INTO daily_attendances (
				user_id, team_member_id, attendance_date, status,
				clock_in_time, clock_out_time, hours_worked, description
			) VALUES (
				$1, $2, $3, $4, $5::time, $6::time, $7::numeric, $8
			) RETURNING id, created_at, updated_at
		`
		return q.QueryRow(ctx, query,
			record.UserID,
			record.TeamMemberID,
			record.Date,
			string(record.Status),
			encodeTime(record.ClockIn),
			encodeTime(record.ClockOut),
			encodeHours(record.HoursWorked),
			record.Description,
		).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrTeamMemberNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, session auth.Session, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	record, err := scanAttendance(q.QueryRow(ctx, selectAttendance+` WHERE a.id = $1 AND a.user_id = $2`, id, session.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return record, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE daily_attendances
		SET attendance_date = $1,
			status = $2,
			clock_in_time = $3::time,
			clock_out_time = $4::time,
			hours_worked = $5::numeric,
			description = $6,
			updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		record.Date,
		string(record.Status),
		encodeTime(record.ClockIn),
		encodeTime(record.ClockOut),
		encodeHours(record.HoursWorked),
		record.Description,
		record.ID,
		record.UserID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return record, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, session auth.Session, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM daily_attendances WHERE id = $1 AND user_id = $2`, id, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// Fetch implements attendance.AttendanceRepository.
func (a *attendanceRepository) Fetch(ctx context.Context, session auth.Session, filter attendance.Filter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where := "a.user_id = $1"
	args := []interface{}{session.UserID}
	argIdx := 2

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND a.attendance_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND a.attendance_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.TeamMemberID != nil && *filter.TeamMemberID != "" {
		where += fmt.Sprintf(" AND a.team_member_id = $%d", argIdx)
		args = append(args, *filter.TeamMemberID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
	}

	query := selectAttendance + " WHERE " + where + " ORDER BY a.attendance_date DESC, a.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
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

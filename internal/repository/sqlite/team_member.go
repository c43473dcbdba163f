package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/google/uuid"
)

type teamMemberRepository struct {
	db *sql.DB
}

func NewTeamMemberRepository(db *sql.DB) teammember.TeamMemberRepository {
	return &teamMemberRepository{db: db}
}

// Create implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) Create(ctx context.Context, member teammember.TeamMember) (teammember.TeamMember, error) {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (id, user_id, name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID, member.UserID, member.Name, member.Role,
		formatTime(member.CreatedAt), formatTime(member.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return teammember.TeamMember{}, teammember.ErrNameExists
		}
		return teammember.TeamMember{}, fmt.Errorf("failed to create team member: %w", err)
	}

	return member, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTeamMember(row scanner) (teammember.TeamMember, error) {
	var (
		m                    teammember.TeamMember
		createdAt, updatedAt string
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Role, &createdAt, &updatedAt); err != nil {
		return teammember.TeamMember{}, err
	}

	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return teammember.TeamMember{}, fmt.Errorf("team member %s: %w", m.ID, err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return teammember.TeamMember{}, fmt.Errorf("team member %s: %w", m.ID, err)
	}
	return m, nil
}

// GetByID implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) GetByID(ctx context.Context, session auth.Session, id string) (teammember.TeamMember, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, role, created_at, updated_at
		FROM team_members
		WHERE id = ? AND user_id = ?`, id, session.UserID)

	m, err := scanTeamMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return teammember.TeamMember{}, teammember.ErrTeamMemberNotFound
		}
		return teammember.TeamMember{}, fmt.Errorf("failed to get team member: %w", err)
	}
	return m, nil
}

// List implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) List(ctx context.Context, session auth.Session) ([]teammember.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, role, created_at, updated_at
		FROM team_members
		WHERE user_id = ?
		ORDER BY lower(name), name`, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	members := make([]teammember.TeamMember, 0)
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}

	return members, nil
}

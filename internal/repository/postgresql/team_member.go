package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type teamMemberRepository struct {
	db *database.DB
}

func NewTeamMemberRepository(db *database.DB) teammember.TeamMemberRepository {
	return &teamMemberRepository{db: db}
}

// Create implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) Create(ctx context.Context, member teammember.TeamMember) (teammember.TeamMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO team_members (id, user_id, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		member.ID, member.UserID, member.Name, member.Role, member.CreatedAt, member.UpdatedAt,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return teammember.TeamMember{}, teammember.ErrNameExists
		}
		return teammember.TeamMember{}, fmt.Errorf("failed to create team member: %w", err)
	}

	return member, nil
}

// GetByID implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) GetByID(ctx context.Context, session auth.Session, id string) (teammember.TeamMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, name, role, created_at, updated_at
		FROM team_members
		WHERE id = $1 AND user_id = $2
	`

	var m teammember.TeamMember
	err := q.QueryRow(ctx, query, id, session.UserID).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return teammember.TeamMember{}, teammember.ErrTeamMemberNotFound
		}
		return teammember.TeamMember{}, fmt.Errorf("failed to get team member: %w", err)
	}

	return m, nil
}

// List implements teammember.TeamMemberRepository.
func (r *teamMemberRepository) List(ctx context.Context, session auth.Session) ([]teammember.TeamMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, name, role, created_at, updated_at
		FROM team_members
		WHERE user_id = $1
		ORDER BY lower(name), name
	`

	rows, err := q.Query(ctx, query, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	members := make([]teammember.TeamMember, 0)
	for rows.Next() {
		var m teammember.TeamMember
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}

	return members, nil
}

package teammember

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

type TeamMemberServiceImpl struct {
	teammember.TeamMemberRepository
}

// CreateTeamMember implements teammember.TeamMemberService.
func (s *TeamMemberServiceImpl) CreateTeamMember(ctx context.Context, req teammember.CreateTeamMemberRequest) (teammember.TeamMemberResponse, error) {
	if err := req.Validate(); err != nil {
		return teammember.TeamMemberResponse{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return teammember.TeamMemberResponse{}, err
	}

	now := time.Now().UTC()
	member, err := s.TeamMemberRepository.Create(ctx, teammember.TeamMember{
		ID:        uuid.NewString(),
		UserID:    session.UserID,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return teammember.TeamMemberResponse{}, fmt.Errorf("failed to create team member: %w", err)
	}

	return mapTeamMemberToResponse(member), nil
}

// ListTeamMembers implements teammember.TeamMemberService.
func (s *TeamMemberServiceImpl) ListTeamMembers(ctx context.Context) ([]teammember.TeamMemberResponse, error) {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.TeamMemberRepository.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	responses := make([]teammember.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, mapTeamMemberToResponse(m))
	}
	return responses, nil
}

func mapTeamMemberToResponse(m teammember.TeamMember) teammember.TeamMemberResponse {
	return teammember.TeamMemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func NewTeamMemberService(repo teammember.TeamMemberRepository) teammember.TeamMemberService {
	return &TeamMemberServiceImpl{TeamMemberRepository: repo}
}

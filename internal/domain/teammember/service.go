package teammember

import "context"

type TeamMemberService interface {
	CreateTeamMember(ctx context.Context, req CreateTeamMemberRequest) (TeamMemberResponse, error)
	ListTeamMembers(ctx context.Context) ([]TeamMemberResponse, error)
}

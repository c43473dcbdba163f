package teammember

import (
	"context"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member TeamMember) (TeamMember, error)

	GetByID(ctx context.Context, session auth.Session, id string) (TeamMember, error)

	// List returns the session's team members ordered by name.
	List(ctx context.Context, session auth.Session) ([]TeamMember, error)
}

package teammember

import (
	"strings"

	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
)

type CreateTeamMemberRequest struct {
	Name string  `json:"name"`
	Role *string `json:"role,omitempty"`
}

func (r *CreateTeamMemberRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TeamMemberResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      *string `json:"role,omitempty"`
	CreatedAt string  `json:"created_at"`
}

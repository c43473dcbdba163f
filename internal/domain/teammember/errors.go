package teammember

import "errors"

var (
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrNameExists         = errors.New("a team member with this name already exists")
)

package teammember

import "time"

type TeamMember struct {
	ID        string
	UserID    string
	Name      string
	Role      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package attendance

import (
	"context"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
)

// AttendanceRepository defines data access for attendance records.
// Every method is scoped by the session's user so one account never reads
// or mutates another account's records.
type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	GetByID(ctx context.Context, session auth.Session, id string) (Record, error)

	Update(ctx context.Context, record Record) (Record, error)

	Delete(ctx context.Context, session auth.Session, id string) error

	// Fetch returns matching records ordered by date desc, then created_at desc.
	Fetch(ctx context.Context, session auth.Session, filter Filter) ([]Record, error)
}

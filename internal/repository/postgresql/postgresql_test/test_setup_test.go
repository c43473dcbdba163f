package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/database"
)

// schema mirrors the tables the repositories read and write.
const schema = `
CREATE TABLE IF NOT EXISTS team_members (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	name VARCHAR(100) NOT NULL,
	role VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS daily_attendances (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id TEXT NOT NULL,
	team_member_id UUID NOT NULL REFERENCES team_members(id) ON DELETE CASCADE,
	attendance_date DATE NOT NULL,
	status TEXT NOT NULL,
	clock_in_time TIME,
	clock_out_time TIME,
	hours_worked NUMERIC(4,1),
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
`

// newTestDatabase connects to TEST_DATABASE_URL and prepares empty tables.
// Tests are skipped when no database is configured.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE daily_attendances, team_members CASCADE"); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return db
}

package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/latest"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/teamops-backend-go/internal/service/file"
	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	attendance.AttendanceRepository

	records    []attendance.Record
	lastFilter attendance.Filter
	// block, when set, holds Fetch until released or cancelled.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, s auth.Session, filter attendance.Filter) ([]attendance.Record, error) {
	f.lastFilter = filter
	if f.block != nil {
		close(f.started)
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var out []attendance.Record
	for _, r := range f.records {
		if r.UserID == s.UserID {
			out = append(out, r)
		}
	}
	return out, nil
}

func sessionContext(t *testing.T, userID string) context.Context {
	t.Helper()
	tok := jwxjwt.New()
	require.NoError(t, tok.Set("user_id", userID))
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func owned(r attendance.Record) attendance.Record {
	r.UserID = "user-1"
	return r
}

func newTestService(t *testing.T, repo attendance.AttendanceRepository) (*ReportServiceImpl, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "http://localhost:8080/files")
	require.NoError(t, err)

	svc := NewReportService(repo, file.NewFileService(local), period.French).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }
	return svc, dir
}

func weekRecords() []attendance.Record {
	return []attendance.Record{
		owned(rec("A", "2025-01-13", attendance.StatusPresent, hours("8.0"))),
		owned(rec("A", "2025-01-15", attendance.StatusPresent, hours("4.0"))),
		owned(rec("B", "2025-01-13", attendance.StatusAbsent, nil)),
		rec("Other", "2025-01-13", attendance.StatusPresent, hours("8.0")),
	}
}

func TestGenerateAttendanceReport(t *testing.T) {
	repo := &fakeFetcher{records: weekRecords()}
	svc, _ := newTestService(t, repo)

	start, end, member := "2025-01-01", "2025-01-31", "0b8c4f7e-5a4e-4c0e-9a57-3c1f0f1f8a11"
	rep, err := svc.GenerateAttendanceReport(sessionContext(t, "user-1"), report.AttendanceReportRequest{
		StartDate:    &start,
		EndDate:      &end,
		TeamMemberID: &member,
		ReportType:   "Weekly",
	})
	require.NoError(t, err)

	assert.Equal(t, report.ReportWeekly, rep.ReportType)
	assert.Equal(t, "2025-01-15T10:00:00Z", rep.GeneratedAt)
	assert.NotZero(t, rep.Sequence)
	require.Len(t, rep.Periods, 2)
	assert.Equal(t, "12.0", rep.Periods[0].TotalHours.String())

	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, "2025-01-01", repo.lastFilter.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-31", repo.lastFilter.EndDate.Format("2006-01-02"))
	assert.Equal(t, member, *repo.lastFilter.TeamMemberID)
}

func TestGenerateAttendanceReport_Validation(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{})
	start, end := "2025-02-01", "2025-01-01"

	_, err := svc.GenerateAttendanceReport(sessionContext(t, "user-1"), report.AttendanceReportRequest{
		StartDate:  &start,
		EndDate:    &end,
		ReportType: "yearly",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "report_type")
	assert.Contains(t, verrs.ToMap(), "end_date")
}

func TestGenerateAttendanceReport_RequiresSession(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{})

	_, err := svc.GenerateAttendanceReport(context.Background(), report.AttendanceReportRequest{})
	assert.ErrorIs(t, err, auth.ErrMissingSession)
}

func TestGenerateAttendanceReport_NewerRequestWins(t *testing.T) {
	blocking := &fakeFetcher{records: weekRecords(), block: make(chan struct{}), started: make(chan struct{})}
	svc, _ := newTestService(t, blocking)
	ctx := sessionContext(t, "user-1")

	oldErr := make(chan error, 1)
	go func() {
		_, err := svc.GenerateAttendanceReport(ctx, report.AttendanceReportRequest{ReportType: "daily"})
		oldErr <- err
	}()
	<-blocking.started

	// Swap in a non-blocking fetch for the newer request.
	svc.attendanceRepo = &fakeFetcher{records: weekRecords()}
	rep, err := svc.GenerateAttendanceReport(ctx, report.AttendanceReportRequest{ReportType: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, report.ReportMonthly, rep.ReportType)

	select {
	case err := <-oldErr:
		assert.ErrorIs(t, err, latest.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("older request was not superseded")
	}
}

func TestArchiveAttendanceReport_NotCancelledByReportView(t *testing.T) {
	blocking := &fakeFetcher{records: weekRecords(), block: make(chan struct{}), started: make(chan struct{})}
	svc, dir := newTestService(t, blocking)
	ctx := sessionContext(t, "user-1")

	type result struct {
		archived report.ArchivedExport
		err      error
	}
	done := make(chan result, 1)
	go func() {
		archived, err := svc.ArchiveAttendanceReport(ctx, report.ExportRequest{
			AttendanceReportRequest: report.AttendanceReportRequest{ReportType: "daily"},
		})
		done <- result{archived, err}
	}()
	<-blocking.started

	svc.attendanceRepo = &fakeFetcher{records: weekRecords()}
	_, err := svc.GenerateAttendanceReport(ctx, report.AttendanceReportRequest{ReportType: "daily"})
	require.NoError(t, err)
	_, err = svc.GenerateAttendanceReport(ctx, report.AttendanceReportRequest{ReportType: "weekly"})
	require.NoError(t, err)

	close(blocking.block)
	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, 3, res.archived.Rows)
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(res.archived.Path)))
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("archive did not complete")
	}
}

func TestExportAttendanceReport(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{records: weekRecords()})

	exp, err := svc.ExportAttendanceReport(sessionContext(t, "user-1"), report.ExportRequest{
		AttendanceReportRequest: report.AttendanceReportRequest{ReportType: "weekly"},
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance_report_weekly_20250115T100000Z.csv", exp.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType)
	assert.Equal(t, 2, exp.Rows)
	assert.Contains(t, string(exp.Content), `"A","2","0","0","0","0","12.0"`)
}

func TestExportAttendanceReport_InvalidFormat(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{})

	_, err := svc.ExportAttendanceReport(sessionContext(t, "user-1"), report.ExportRequest{Format: "pdf"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "format")
}

func TestArchiveAttendanceReport(t *testing.T) {
	svc, dir := newTestService(t, &fakeFetcher{records: weekRecords()})

	archived, err := svc.ArchiveAttendanceReport(sessionContext(t, "user-1"), report.ExportRequest{
		AttendanceReportRequest: report.AttendanceReportRequest{ReportType: "daily"},
		Format:                  "xlsx",
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance_report_daily_20250115T100000Z.xlsx", archived.Filename)
	assert.Equal(t, "reports/user-1/"+archived.Filename, archived.Path)
	assert.True(t, strings.HasSuffix(archived.URL, "/files/"+archived.Path))
	assert.Equal(t, 3, archived.Rows)

	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(archived.Path)))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGenerateStatusTrend(t *testing.T) {
	repo := &fakeFetcher{records: weekRecords()}
	svc, _ := newTestService(t, repo)

	trend, err := svc.GenerateStatusTrend(sessionContext(t, "user-1"), report.StatusTrendRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-09", trend.StartDate)
	assert.Equal(t, "2025-01-15", trend.EndDate)
	require.Len(t, trend.Days, report.DefaultTrendDays)
	assert.Equal(t, "2025-01-09", repo.lastFilter.StartDate.Format("2006-01-02"))

	byDate := map[string]report.StatusTrendDay{}
	for _, d := range trend.Days {
		byDate[d.Date] = d
	}
	assert.Equal(t, 1, byDate["2025-01-13"].Present)
	assert.Equal(t, 1, byDate["2025-01-13"].Absent)
	assert.Equal(t, "13 janv.", byDate["2025-01-13"].Label)
	assert.Equal(t, 1, byDate["2025-01-15"].Present)
	assert.Equal(t, report.StatusTrendDay{Date: "2025-01-10", Label: "10 janv."}, byDate["2025-01-10"])
}

func TestGenerateStatusTrend_DaysOutOfRange(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{})

	_, err := svc.GenerateStatusTrend(sessionContext(t, "user-1"), report.StatusTrendRequest{Days: 400})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestBuildStatusTrend_IgnoresRecordsOutsideWindow(t *testing.T) {
	records := []attendance.Record{
		rec("A", "2025-01-01", attendance.StatusHoliday, nil),
		rec("A", "2025-01-03", attendance.StatusLeave, nil),
	}

	trend, err := BuildStatusTrend(records, day("2025-01-02"), 3, period.English)
	require.NoError(t, err)
	require.Len(t, trend.Days, 3)
	assert.Equal(t, 0, trend.Days[0].Holiday)
	assert.Equal(t, 1, trend.Days[1].Leave)
	assert.Equal(t, "03 Jan", trend.Days[1].Label)
}

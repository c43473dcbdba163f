package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/latest"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/teamops-backend-go/internal/service/file"
)

// archiveURLExpiry bounds signed URLs for storages that support them.
const archiveURLExpiry = 24 * time.Hour

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	fileService    file.FileService
	locale         period.Locale

	// inflight makes a user's newest report request win over older ones.
	inflight latest.Group
	now      func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	fileService file.FileService,
	locale period.Locale,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		fileService:    fileService,
		locale:         locale,
		now:            time.Now,
	}
}

// GenerateAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateAttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	return s.generate(ctx, session, req)
}

// generate backs the report view. A newer view request from the same user
// supersedes an older one still fetching.
func (s *ReportServiceImpl) generate(ctx context.Context, session auth.Session, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	filter := req.Filter()
	records, seq, err := latest.Do(&s.inflight, ctx, session.UserID, func(ctx context.Context) ([]attendance.Record, error) {
		return s.attendanceRepo.Fetch(ctx, session, filter)
	})
	if err != nil {
		if errors.Is(err, latest.ErrSuperseded) {
			slog.Debug("Attendance report superseded", "user_id", session.UserID, "sequence", seq)
			return report.AttendanceReport{}, err
		}
		return report.AttendanceReport{}, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	return s.build(session, records, req, seq)
}

func (s *ReportServiceImpl) build(session auth.Session, records []attendance.Record, req report.AttendanceReportRequest, seq uint64) (report.AttendanceReport, error) {
	rep, err := Aggregate(records, report.ReportType(req.ReportType), s.locale)
	if err != nil {
		slog.Error("Failed to aggregate attendance report", "user_id", session.UserID, "report_type", req.ReportType, "error", err)
		return report.AttendanceReport{}, err
	}

	rep.Sequence = seq
	rep.GeneratedAt = s.now().UTC().Format(time.RFC3339)
	return rep, nil
}

// ExportAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceReport(ctx context.Context, req report.ExportRequest) (report.Export, error) {
	if err := req.Validate(); err != nil {
		return report.Export{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return report.Export{}, err
	}

	return s.export(ctx, session, req)
}

// export fetches outside the view's last-request-wins group: downloads and
// archives run to completion whatever the user views meanwhile.
func (s *ReportServiceImpl) export(ctx context.Context, session auth.Session, req report.ExportRequest) (report.Export, error) {
	records, err := s.attendanceRepo.Fetch(ctx, session, req.Filter())
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	rep, err := s.build(session, records, req.AttendanceReportRequest, 0)
	if err != nil {
		return report.Export{}, err
	}

	format := report.ExportFormat(req.Format)
	content, err := Render(rep, format)
	if err != nil {
		slog.Error("Failed to render attendance report", "user_id", session.UserID, "format", format, "error", err)
		return report.Export{}, err
	}

	return report.Export{
		Filename:    ExportFilename(rep.ReportType, format, s.now()),
		ContentType: format.ContentType(),
		Content:     content,
		Rows:        rep.Len(),
	}, nil
}

// ArchiveAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ArchiveAttendanceReport(ctx context.Context, req report.ExportRequest) (report.ArchivedExport, error) {
	if err := req.Validate(); err != nil {
		return report.ArchivedExport{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return report.ArchivedExport{}, err
	}

	exp, err := s.export(ctx, session, req)
	if err != nil {
		return report.ArchivedExport{}, err
	}

	path, err := s.fileService.UploadReportExport(ctx, session.UserID, bytes.NewReader(exp.Content), exp.Filename, exp.ContentType)
	if err != nil {
		return report.ArchivedExport{}, fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := s.fileService.GetFileURL(ctx, path, archiveURLExpiry)
	if err != nil {
		return report.ArchivedExport{}, fmt.Errorf("failed to get archive URL: %w", err)
	}

	slog.Info("Archived attendance report", "user_id", session.UserID, "path", path, "rows", exp.Rows)

	return report.ArchivedExport{
		Filename: exp.Filename,
		Path:     path,
		URL:      url,
		Rows:     exp.Rows,
	}, nil
}

// GenerateStatusTrend implements report.ReportService.
func (s *ReportServiceImpl) GenerateStatusTrend(ctx context.Context, req report.StatusTrendRequest) (report.StatusTrend, error) {
	if err := req.Validate(); err != nil {
		return report.StatusTrend{}, err
	}

	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return report.StatusTrend{}, err
	}

	end := period.Day(s.now())
	start := end.AddDate(0, 0, -(req.Days - 1))

	filter := attendance.Filter{StartDate: &start, EndDate: &end}
	if req.TeamMemberID != nil && *req.TeamMemberID != "" {
		filter.TeamMemberID = req.TeamMemberID
	}

	// Keyed apart from reports so a dashboard refresh never cancels a report.
	records, _, err := latest.Do(&s.inflight, ctx, session.UserID+":trend", func(ctx context.Context) ([]attendance.Record, error) {
		return s.attendanceRepo.Fetch(ctx, session, filter)
	})
	if err != nil {
		if errors.Is(err, latest.ErrSuperseded) {
			return report.StatusTrend{}, err
		}
		return report.StatusTrend{}, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	trend, err := BuildStatusTrend(records, start, req.Days, s.locale)
	if err != nil {
		slog.Error("Failed to build status trend", "user_id", session.UserID, "error", err)
		return report.StatusTrend{}, err
	}
	return trend, nil
}

// BuildStatusTrend counts statuses for each of the days starting at start.
// Days without records are present with zero counts; records outside the
// window are ignored.
func BuildStatusTrend(records []attendance.Record, start time.Time, days int, locale period.Locale) (report.StatusTrend, error) {
	start = period.Day(start)
	trend := report.StatusTrend{
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, days-1).Format("2006-01-02"),
		Days:      make([]report.StatusTrendDay, days),
	}

	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		trend.Days[i] = report.StatusTrendDay{Date: key, Label: locale.ShortDate(d)}
		index[key] = i
	}

	for _, r := range records {
		if err := checkRecord(r); err != nil {
			return report.StatusTrend{}, err
		}
		i, ok := index[period.Day(r.Date).Format("2006-01-02")]
		if !ok {
			continue
		}

		day := &trend.Days[i]
		switch r.Status {
		case attendance.StatusPresent:
			day.Present++
		case attendance.StatusAbsent:
			day.Absent++
		case attendance.StatusLeave:
			day.Leave++
		case attendance.StatusSick:
			day.Sick++
		case attendance.StatusHoliday:
			day.Holiday++
		}
	}

	return trend, nil
}

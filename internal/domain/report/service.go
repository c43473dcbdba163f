package report

import "context"

// ReportService defines the interface for attendance report generation
type ReportService interface {
	// GenerateAttendanceReport fetches the session's records and aggregates them
	GenerateAttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReport, error)

	// ExportAttendanceReport renders the report as a downloadable file
	ExportAttendanceReport(ctx context.Context, req ExportRequest) (Export, error)

	// ArchiveAttendanceReport stores the rendered file and returns where it lives
	ArchiveAttendanceReport(ctx context.Context, req ExportRequest) (ArchivedExport, error)

	// GenerateStatusTrend counts statuses per day over a trailing window
	GenerateStatusTrend(ctx context.Context, req StatusTrendRequest) (StatusTrend, error)
}

package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/teamops-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
	ExportAttendanceReport(w http.ResponseWriter, r *http.Request)
	ArchiveAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetStatusTrend(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// queryPtr returns nil for absent or empty query parameters.
func queryPtr(q url.Values, key string) *string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func attendanceReportRequest(q url.Values) report.AttendanceReportRequest {
	return report.AttendanceReportRequest{
		StartDate:    queryPtr(q, "start_date"),
		EndDate:      queryPtr(q, "end_date"),
		TeamMemberID: queryPtr(q, "team_member_id"),
		ReportType:   q.Get("report_type"),
	}
}

// GetAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req := attendanceReportRequest(r.URL.Query())

	result, err := h.reportService.GenerateAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: result.Len(), Sequence: result.Sequence})
}

// ExportAttendanceReport handles GET /reports/attendance/export
func (h *reportHandlerImpl) ExportAttendanceReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.ExportRequest{
		AttendanceReportRequest: attendanceReportRequest(q),
		Format:                  q.Get("format"),
	}

	result, err := h.reportService.ExportAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, result.Filename, result.ContentType, result.Content)
}

// ArchiveAttendanceReport handles POST /reports/attendance/archive
func (h *reportHandlerImpl) ArchiveAttendanceReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.ExportRequest{
		AttendanceReportRequest: attendanceReportRequest(q),
		Format:                  q.Get("format"),
	}

	result, err := h.reportService.ArchiveAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Report archived", result)
}

// GetStatusTrend handles GET /reports/attendance/trend
func (h *reportHandlerImpl) GetStatusTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.StatusTrendRequest{TeamMemberID: queryPtr(q, "team_member_id")}

	if daysStr := q.Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			response.BadRequest(w, "invalid days parameter", nil)
			return
		}
		req.Days = days
	}

	result, err := h.reportService.GenerateStatusTrend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

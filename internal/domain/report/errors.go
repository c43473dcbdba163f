package report

import "errors"

var (
	ErrInvalidReportType   = errors.New("report type must be one of: daily, weekly, monthly")
	ErrInvalidExportFormat = errors.New("export format must be one of: csv, xlsx")
	ErrMalformedRecord     = errors.New("malformed attendance record")
	ErrExportFailed        = errors.New("failed to export report")
)

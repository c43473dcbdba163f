package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

var (
	dailyColumns  = []string{"periodLabel", "teamMemberName", "status", "hoursWorked", "description"}
	periodColumns = []string{"periodLabel", "teamMemberName", "presentDays", "absentDays", "leaveDays", "sickDays", "holidayDays", "totalHours"}
)

const sheetName = "Attendance"

// cell is one exported value. Hours keep their decimal for typed spreadsheet cells.
type cell struct {
	text    string
	count   *int
	hours   *report.Hours
	isEmpty bool
}

func textCell(s string) cell { return cell{text: s} }

func countCell(n int) cell { return cell{text: strconv.Itoa(n), count: &n} }

func hoursCell(h *report.Hours) cell {
	if h == nil {
		return cell{isEmpty: true}
	}
	return cell{text: h.String(), hours: h}
}

func optionalText(s *string) cell {
	if s == nil {
		return cell{isEmpty: true}
	}
	return textCell(*s)
}

// table lays the report out as a header plus rows in the active shape.
func table(rep report.AttendanceReport) ([]string, [][]cell) {
	if rep.ReportType == report.ReportDaily {
		rows := make([][]cell, 0, len(rep.Daily))
		for _, r := range rep.Daily {
			rows = append(rows, []cell{
				textCell(r.Period),
				textCell(r.TeamMemberName),
				textCell(string(r.Status)),
				hoursCell(r.HoursWorked),
				optionalText(r.Description),
			})
		}
		return dailyColumns, rows
	}

	rows := make([][]cell, 0, len(rep.Periods))
	for _, r := range rep.Periods {
		total := r.TotalHours
		rows = append(rows, []cell{
			textCell(r.Period),
			textCell(r.TeamMemberName),
			countCell(r.PresentDays),
			countCell(r.AbsentDays),
			countCell(r.LeaveDays),
			countCell(r.SickDays),
			countCell(r.HolidayDays),
			hoursCell(&total),
		})
	}
	return periodColumns, rows
}

// WriteCSV writes the report with every field double-quoted. Null hours and
// descriptions become empty quoted fields.
func WriteCSV(w io.Writer, rep report.AttendanceReport) error {
	header, rows := table(rep)

	var b strings.Builder
	writeLine := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteString("\r\n")
	}

	writeLine(header)
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, c := range row {
			fields[i] = c.text
		}
		writeLine(fields)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteXLSX writes the report as a single-sheet workbook with typed cells.
func WriteXLSX(w io.Writer, rep report.AttendanceReport) error {
	header, rows := table(rep)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	hoursFormat := "0.0"
	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFormat})
	if err != nil {
		return fmt.Errorf("failed to create hours style: %w", err)
	}

	for col, name := range header {
		ref, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, ref, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		for col, c := range row {
			ref, _ := excelize.CoordinatesToCellName(col+1, i+2)
			var err error
			switch {
			case c.isEmpty:
				continue
			case c.hours != nil:
				err = f.SetCellValue(sheetName, ref, c.hours.InexactFloat64())
				if err == nil {
					err = f.SetCellStyle(sheetName, ref, ref, hoursStyle)
				}
			case c.count != nil:
				err = f.SetCellValue(sheetName, ref, *c.count)
			default:
				err = f.SetCellStr(sheetName, ref, c.text)
			}
			if err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheetName, "A", "A", 36); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	return f.Write(w)
}

// Render encodes the report in the requested format.
func Render(rep report.AttendanceReport, format report.ExportFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case report.ExportCSV:
		err = WriteCSV(&buf, rep)
	case report.ExportXLSX:
		err = WriteXLSX(&buf, rep)
	default:
		return nil, report.ErrInvalidExportFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return buf.Bytes(), nil
}

// ExportFilename follows attendance_report_<type>_<timestamp>.<ext>.
func ExportFilename(reportType report.ReportType, format report.ExportFormat, at time.Time) string {
	return fmt.Sprintf("attendance_report_%s_%s.%s", reportType, at.UTC().Format("20060102T150405Z"), format)
}

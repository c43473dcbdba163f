package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// Aggregate turns attendance records into report rows of the requested shape.
// It does not read the clock or any store: the same input always yields the
// same rows. A record with a zero date or unknown status fails the whole call.
func Aggregate(records []attendance.Record, reportType report.ReportType, locale period.Locale) (report.AttendanceReport, error) {
	out := report.AttendanceReport{ReportType: reportType}

	for i, r := range records {
		if err := checkRecord(r); err != nil {
			return report.AttendanceReport{}, fmt.Errorf("record %d: %w", i, err)
		}
	}

	switch reportType {
	case report.ReportDaily:
		out.Daily = aggregateDaily(records, locale)
	case report.ReportWeekly:
		rows, err := aggregatePeriods(records, locale.Week)
		if err != nil {
			return report.AttendanceReport{}, err
		}
		out.Periods = rows
	case report.ReportMonthly:
		rows, err := aggregatePeriods(records, locale.Month)
		if err != nil {
			return report.AttendanceReport{}, err
		}
		out.Periods = rows
	default:
		return report.AttendanceReport{}, report.ErrInvalidReportType
	}

	return out, nil
}

func checkRecord(r attendance.Record) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: missing attendance date", report.ErrMalformedRecord)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: status %q", report.ErrMalformedRecord, r.Status)
	}
	return nil
}

// newestFirst orders by attendance date desc, then creation time desc.
func newestFirst(records []attendance.Record) []attendance.Record {
	sorted := make([]attendance.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := period.Day(sorted[i].Date), period.Day(sorted[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func aggregateDaily(records []attendance.Record, locale period.Locale) []report.DailyRow {
	sorted := newestFirst(records)
	rows := make([]report.DailyRow, 0, len(sorted))
	for _, r := range sorted {
		row := report.DailyRow{
			Period:         locale.LongDate(r.Date),
			TeamMemberName: r.MemberName(),
			Status:         r.Status,
			Description:    r.Description,
		}
		if r.HoursWorked != nil {
			h := report.NewHours(*r.HoursWorked)
			row.HoursWorked = &h
		}
		rows = append(rows, row)
	}
	return rows
}

type bucket struct {
	anchor  time.Time
	label   string
	members map[string]*memberTally
}

type memberTally struct {
	row   report.PeriodRow
	hours decimal.Decimal
}

// aggregatePeriods groups records by the period keyOf assigns and then by
// member name. Hours are summed exactly and rounded once per row.
func aggregatePeriods(records []attendance.Record, keyOf func(time.Time) (time.Time, string)) ([]report.PeriodRow, error) {
	buckets := make(map[string]*bucket)

	for _, r := range records {
		anchor, label := keyOf(r.Date)
		key := anchor.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{anchor: anchor, label: label, members: make(map[string]*memberTally)}
			buckets[key] = b
		}

		name := r.MemberName()
		tally, ok := b.members[name]
		if !ok {
			tally = &memberTally{row: report.PeriodRow{
				Period:         b.label,
				PeriodStart:    key,
				TeamMemberName: name,
			}}
			b.members[name] = tally
		}

		switch r.Status {
		case attendance.StatusPresent:
			tally.row.PresentDays++
		case attendance.StatusAbsent:
			tally.row.AbsentDays++
		case attendance.StatusLeave:
			tally.row.LeaveDays++
		case attendance.StatusSick:
			tally.row.SickDays++
		case attendance.StatusHoliday:
			tally.row.HolidayDays++
		default:
			return nil, fmt.Errorf("%w: status %q", report.ErrMalformedRecord, r.Status)
		}

		if r.HoursWorked != nil {
			tally.hours = tally.hours.Add(*r.HoursWorked)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].anchor.After(ordered[j].anchor) })

	rows := make([]report.PeriodRow, 0, len(records))
	for _, b := range ordered {
		names := make([]string, 0, len(b.members))
		for name := range b.members {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return memberLess(names[i], names[j]) })

		for _, name := range names {
			tally := b.members[name]
			tally.row.TotalHours = report.NewHours(tally.hours)
			rows = append(rows, tally.row)
		}
	}
	return rows, nil
}

func memberLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

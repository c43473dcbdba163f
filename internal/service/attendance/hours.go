package attendance

import (
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var (
	// Shifts longer than breakThreshold hours carry an unpaid break of breakHours.
	breakThreshold = decimal.NewFromInt(4)
	breakHours     = decimal.NewFromInt(1)

	nanosPerHour = decimal.NewFromInt(int64(time.Hour))
)

// ComputeHours returns the net hours worked between two times of the same day,
// rounded to one decimal place. The caller guarantees clockOut is after clockIn.
func ComputeHours(clockIn, clockOut attendance.TimeOfDay) decimal.Decimal {
	return HoursForDuration(clockOut.Sub(clockIn))
}

// HoursForDuration applies the break deduction to a raw shift length.
// The result is never negative and is rounded half away from zero.
func HoursForDuration(d time.Duration) decimal.Decimal {
	hours := decimal.NewFromInt(int64(d)).Div(nanosPerHour)
	if hours.GreaterThan(breakThreshold) {
		hours = hours.Sub(breakHours)
	}
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	return hours.Round(1)
}

package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed set of daily attendance outcomes.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
	StatusSick    Status = "Sick"
	StatusHoliday Status = "Holiday"
)

// Statuses lists every Status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLeave, StatusSick, StatusHoliday}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// TimeOfDay is a wall-clock hour and minute with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24h notation.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.minutes() < u.minutes()
}

// Sub returns t-u on the same calendar day.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(t.minutes()-u.minutes()) * time.Minute
}

// Record is one team member's attendance for one calendar day.
type Record struct {
	ID             string
	UserID         string
	TeamMemberID   string
	TeamMemberName *string // resolved by the store's join, may be nil
	Date           time.Time
	Status         Status
	ClockIn        *TimeOfDay
	ClockOut       *TimeOfDay
	HoursWorked    *decimal.Decimal
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MemberName returns the display name, or "N/A" when the join found none.
func (r Record) MemberName() string {
	if r.TeamMemberName == nil || *r.TeamMemberName == "" {
		return UnknownMemberName
	}
	return *r.TeamMemberName
}

const UnknownMemberName = "N/A"

// Filter narrows a record fetch. Nil bounds are open-ended; both are inclusive.
type Filter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	TeamMemberID *string
	Status       *Status
}

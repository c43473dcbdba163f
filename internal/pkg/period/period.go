// Package period buckets calendar dates into days, weeks and months and
// renders their labels in a report locale.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Day strips the clock from t, keeping its calendar date as a UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the first day of the week containing t.
func WeekStart(t time.Time, first time.Weekday) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) - int(first) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the last day of the week containing t.
func WeekEnd(t time.Time, first time.Weekday) time.Time {
	return WeekStart(t, first).AddDate(0, 0, 6)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Locale carries the calendar conventions a report is rendered with.
type Locale struct {
	Name      string
	WeekStart time.Weekday

	months      [12]string
	shortMonths [12]string
	longDate    func(l Locale, t time.Time) string
	weekLabel   string // format with two long dates
}

var French = Locale{
	Name:      "fr",
	WeekStart: time.Monday,
	months: [12]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	},
	shortMonths: [12]string{
		"janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc.",
	},
	longDate: func(l Locale, t time.Time) string {
		return fmt.Sprintf("%d %s %d", t.Day(), l.months[t.Month()-1], t.Year())
	},
	weekLabel: "Semaine du %s au %s",
}

var English = Locale{
	Name:      "en",
	WeekStart: time.Sunday,
	months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	shortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	longDate: func(l Locale, t time.Time) string {
		return fmt.Sprintf("%s %d, %d", l.months[t.Month()-1], t.Day(), t.Year())
	},
	weekLabel: "Week of %s to %s",
}

// LocaleByName resolves "fr" or "en"; the empty name selects French.
func LocaleByName(name string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fr":
		return French, nil
	case "en":
		return English, nil
	}
	return Locale{}, fmt.Errorf("unsupported report locale %q", name)
}

// LongDate renders a full date, e.g. "15 janvier 2025".
func (l Locale) LongDate(t time.Time) string {
	return l.longDate(l, t)
}

// ShortDate renders day and abbreviated month, e.g. "05 janv.".
func (l Locale) ShortDate(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), l.shortMonths[t.Month()-1])
}

// Week returns the anchor and label of the week containing t.
func (l Locale) Week(t time.Time) (time.Time, string) {
	start := WeekStart(t, l.WeekStart)
	end := start.AddDate(0, 0, 6)
	return start, fmt.Sprintf(l.weekLabel, l.LongDate(start), l.LongDate(end))
}

// Month returns the anchor and label of the month containing t, e.g. "janvier 2025".
func (l Locale) Month(t time.Time) (time.Time, string) {
	start := MonthStart(t)
	return start, fmt.Sprintf("%s %d", l.months[start.Month()-1], start.Year())
}

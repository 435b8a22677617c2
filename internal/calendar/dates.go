package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	minYear = 1
	maxYear = 9999
)

// Validate rejects dates that do not exist or fall outside four-digit years.
func Validate(d civil.Date) error {
	if !d.IsValid() || d.Year < minYear || d.Year > maxYear {
		return fmt.Errorf("%w: %v-%v-%v", ErrInvalidDate, d.Year, int(d.Month), d.Day)
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if err := Validate(d); err != nil {
		return civil.Date{}, err
	}

	return d, nil
}

func StartOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func EndOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: daysIn(d.Year, d.Month)}
}

// StartOfISOWeek returns the Monday of d's week.
func StartOfISOWeek(d civil.Date) civil.Date {
	return d.AddDays(-isoWeekdayOffset(d))
}

// EndOfISOWeek returns the Sunday of d's week.
func EndOfISOWeek(d civil.Date) civil.Date {
	return StartOfISOWeek(d).AddDays(6)
}

func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// AddMonths shifts d by n months, clamping the day to the target month's length.
func AddMonths(d civil.Date, n int) civil.Date {
	first := civil.DateOf(time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
	day := d.Day
	if last := daysIn(first.Year, first.Month); day > last {
		day = last
	}

	return civil.Date{Year: first.Year, Month: first.Month, Day: day}
}

// isoWeekdayOffset is 0 for Monday through 6 for Sunday.
func isoWeekdayOffset(d civil.Date) int {
	return (int(Weekday(d)) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

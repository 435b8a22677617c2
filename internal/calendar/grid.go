package calendar

import "cloud.google.com/go/civil"

// MonthGrid returns the Monday-first weeks covering anchor's month. Leading and
// trailing days belong to the adjacent months.
func MonthGrid(anchor civil.Date) ([][]civil.Date, error) {
	if err := Validate(anchor); err != nil {
		return nil, err
	}

	day := StartOfISOWeek(StartOfMonth(anchor))
	last := EndOfISOWeek(EndOfMonth(anchor))

	var weeks [][]civil.Date
	for !day.After(last) {
		week := make([]civil.Date, 7)
		for i := range week {
			week[i] = day
			day = day.AddDays(1)
		}
		weeks = append(weeks, week)
	}

	return weeks, nil
}

// WeekDays returns Monday through Sunday of anchor's ISO week.
func WeekDays(anchor civil.Date) ([]civil.Date, error) {
	if err := Validate(anchor); err != nil {
		return nil, err
	}

	return FetchRange{Start: StartOfISOWeek(anchor), End: EndOfISOWeek(anchor)}.Days(), nil
}

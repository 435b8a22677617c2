package calendar

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/teambition/rrule-go"
)

// Index maps calendar dates to the events occurring on them. It is built once and
// never modified afterwards.
type Index struct {
	days     map[civil.Date][]model.CalendarEvent
	rejected []model.CalendarEvent
}

// BuildIndex indexes visits under their date and retreats under every day of their
// inclusive span. Same-day events keep the order of the input list. Retreats whose
// span cannot be expanded are left out and reported by Rejected.
func BuildIndex(events []model.CalendarEvent) *Index {
	idx := &Index{days: make(map[civil.Date][]model.CalendarEvent)}

	for _, e := range events {
		switch e := e.(type) {
		case *model.VisitEvent:
			if e == nil {
				continue
			}
			idx.days[e.Date] = append(idx.days[e.Date], e)
		case *model.RetreatEvent:
			if e == nil {
				continue
			}
			days, err := spanDays(e.StartDate, e.EndDate)
			if err != nil {
				idx.rejected = append(idx.rejected, e)
				continue
			}
			for _, d := range days {
				idx.days[d] = append(idx.days[d], e)
			}
		}
	}

	return idx
}

// EventsOn returns the events occurring on date, or an empty list.
func (idx *Index) EventsOn(date civil.Date) []model.CalendarEvent {
	if idx == nil {
		return []model.CalendarEvent{}
	}

	events := idx.days[date]
	res := make([]model.CalendarEvent, len(events))
	copy(res, events)

	return res
}

// Dates lists the dates having at least one event, in ascending order.
func (idx *Index) Dates() []civil.Date {
	if idx == nil {
		return nil
	}

	res := make([]civil.Date, 0, len(idx.days))
	for d := range idx.days {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Before(res[j])
	})

	return res
}

func (idx *Index) Rejected() []model.CalendarEvent {
	if idx == nil {
		return nil
	}

	return idx.rejected
}

func spanDays(start, end civil.Date) ([]civil.Date, error) {
	if err := Validate(start); err != nil {
		return nil, err
	}
	if err := Validate(end); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("retreat ends %v before it starts %v", end, start)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: 1,
		Dtstart:  start.In(time.UTC),
		Until:    end.In(time.UTC),
	})
	if err != nil {
		return nil, fmt.Errorf("daily rule: %w", err)
	}

	occurrences := rule.All()
	res := make([]civil.Date, len(occurrences))
	for i, o := range occurrences {
		res[i] = civil.DateOf(o.UTC())
	}

	return res, nil
}

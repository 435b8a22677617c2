package calendar

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrFetchFailed   = errors.New("fetch failed")
	ErrStaleResponse = errors.New("stale response")
)

// monthPadding loads the partial leading and trailing weeks of a month grid.
const monthPadding = 7

type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityMonth, GranularityWeek, GranularityDay:
		return g, nil
	case "":
		return GranularityMonth, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

type EventFilter string

const (
	FilterAll      EventFilter = "all"
	FilterVisits   EventFilter = "visits"
	FilterRetreats EventFilter = "retreats"
)

func ParseEventFilter(s string) (EventFilter, error) {
	switch f := EventFilter(s); f {
	case FilterAll, FilterVisits, FilterRetreats:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// Includes reports whether events of the given kind pass the filter.
func (f EventFilter) Includes(kind model.EventKind) bool {
	switch f {
	case FilterVisits:
		return kind == model.EventKindVisit
	case FilterRetreats:
		return kind == model.EventKindRetreat
	default:
		return true
	}
}

type Direction string

const (
	DirectionPrev  Direction = "prev"
	DirectionNext  Direction = "next"
	DirectionToday Direction = "today"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionPrev, DirectionNext, DirectionToday:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

type NavigationState struct {
	Anchor      civil.Date
	Granularity Granularity
	Filter      EventFilter
}

// FetchRange is an inclusive range of calendar dates.
type FetchRange struct {
	Start civil.Date
	End   civil.Date
}

func (r FetchRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days lists every date of the range in order.
func (r FetchRange) Days() []civil.Date {
	if r.End.Before(r.Start) {
		return nil
	}

	res := make([]civil.Date, 0, r.End.DaysSince(r.Start)+1)
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		res = append(res, d)
	}

	return res
}

// ComputeFetchRange derives the range of events needed to render state.
func ComputeFetchRange(state NavigationState) (FetchRange, error) {
	if err := Validate(state.Anchor); err != nil {
		return FetchRange{}, err
	}

	var r FetchRange
	switch state.Granularity {
	case GranularityMonth:
		r = FetchRange{
			Start: StartOfMonth(state.Anchor).AddDays(-monthPadding),
			End:   EndOfMonth(state.Anchor).AddDays(monthPadding),
		}
	case GranularityWeek:
		r = FetchRange{
			Start: StartOfISOWeek(state.Anchor),
			End:   EndOfISOWeek(state.Anchor),
		}
	case GranularityDay:
		r = FetchRange{Start: state.Anchor, End: state.Anchor}
	default:
		return FetchRange{}, fmt.Errorf("unknown granularity %q", state.Granularity)
	}

	if err := Validate(r.Start); err != nil {
		return FetchRange{}, err
	}
	if err := Validate(r.End); err != nil {
		return FetchRange{}, err
	}

	return r, nil
}

// Navigate moves the anchor by one unit of the current granularity, or to today.
func Navigate(state NavigationState, direction Direction, today civil.Date) NavigationState {
	step := 1
	switch direction {
	case DirectionToday:
		state.Anchor = today
		return state
	case DirectionPrev:
		step = -1
	}

	switch state.Granularity {
	case GranularityMonth:
		state.Anchor = AddMonths(state.Anchor, step)
	case GranularityWeek:
		state.Anchor = state.Anchor.AddDays(7 * step)
	default:
		state.Anchor = state.Anchor.AddDays(step)
	}

	return state
}

func (s NavigationState) WithGranularity(g Granularity) NavigationState {
	s.Granularity = g
	return s
}

func (s NavigationState) WithFilter(f EventFilter) NavigationState {
	s.Filter = f
	return s
}

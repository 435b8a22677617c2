package calendar

import (
	"context"

	"cloud.google.com/go/civil"
	cal "github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

// View is a rendered calendar page: the navigation state it was built for and the days
// to display with their events.
type View struct {
	State cal.NavigationState
	Range cal.FetchRange
	Today civil.Date
	Weeks [][]*Day
}

type Day struct {
	Date    civil.Date
	InMonth bool
	Events  []*Event
}

// Event is a calendar event with its payment status. Retreat events carry no status.
type Event struct {
	model.CalendarEvent
	Status *payment.Status
}

// View navigates from state in direction (nil keeps it), loads the resulting range and
// lays the events out for the granularity.
func (s *Service) View(ctx context.Context, state cal.NavigationState, direction *cal.Direction) (*View, error) {
	session := cal.NewSession(s, state, s.today)
	session.SetObserver(s.observer)
	if direction != nil {
		session.Navigate(*direction)
	}

	if err := session.Refresh(ctx); err != nil {
		return nil, err
	}

	idx, r := session.Index()
	state = session.State()

	for _, e := range idx.Rejected() {
		s.logger.Warnw("retreat with inverted dates skipped", "retreat_id", e.EventID())
	}

	weeks, err := layout(state)
	if err != nil {
		return nil, err
	}

	classifier := s.classifiers.Classifier(ctx)

	view := &View{
		State: state,
		Range: r,
		Today: s.today(),
		Weeks: make([][]*Day, len(weeks)),
	}
	for i, week := range weeks {
		view.Weeks[i] = make([]*Day, len(week))
		for j, d := range week {
			view.Weeks[i][j] = &Day{
				Date:    d,
				InMonth: d.Year == state.Anchor.Year && d.Month == state.Anchor.Month,
				Events:  annotate(idx.EventsOn(d), classifier),
			}
		}
	}

	return view, nil
}

func layout(state cal.NavigationState) ([][]civil.Date, error) {
	switch state.Granularity {
	case cal.GranularityWeek:
		days, err := cal.WeekDays(state.Anchor)
		if err != nil {
			return nil, err
		}
		return [][]civil.Date{days}, nil
	case cal.GranularityDay:
		return [][]civil.Date{{state.Anchor}}, nil
	default:
		return cal.MonthGrid(state.Anchor)
	}
}

func annotate(events []model.CalendarEvent, classifier *payment.Classifier) []*Event {
	res := make([]*Event, len(events))
	for i, e := range events {
		res[i] = &Event{CalendarEvent: e}
		if v, ok := e.(*model.VisitEvent); ok {
			status := classifier.Visit(v.Price, v.PaymentType)
			res[i].Status = &status
		}
	}

	return res
}

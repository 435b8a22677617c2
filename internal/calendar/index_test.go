package calendar

import (
	"testing"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexRetreatSpan(t *testing.T) {
	r := &model.RetreatEvent{ID: 1, StartDate: date(2024, time.June, 28), EndDate: date(2024, time.July, 2), Title: "Ретрит"}
	idx := BuildIndex([]model.CalendarEvent{r})

	for d := date(2024, time.June, 20); d.Before(date(2024, time.July, 10)); d = d.AddDays(1) {
		events := idx.EventsOn(d)
		if !d.Before(r.StartDate) && !d.After(r.EndDate) {
			assert.Equal(t, []model.CalendarEvent{r}, events, d)
		} else {
			assert.Empty(t, events, d)
		}
	}
	assert.Len(t, idx.Dates(), 5)
}

func TestBuildIndexSingleDayRetreat(t *testing.T) {
	r := &model.RetreatEvent{ID: 1, StartDate: date(2024, time.June, 8), EndDate: date(2024, time.June, 8)}
	idx := BuildIndex([]model.CalendarEvent{r})

	assert.Len(t, idx.EventsOn(date(2024, time.June, 8)), 1)
	assert.Empty(t, idx.EventsOn(date(2024, time.June, 9)))
}

func TestBuildIndexMixedOrder(t *testing.T) {
	visit := &model.VisitEvent{ID: 10, Date: date(2024, time.June, 10), Price: 0}
	retreat := &model.RetreatEvent{ID: 20, StartDate: date(2024, time.June, 8), EndDate: date(2024, time.June, 12)}
	idx := BuildIndex([]model.CalendarEvent{visit, retreat})

	events := idx.EventsOn(date(2024, time.June, 10))
	require.Len(t, events, 2)
	assert.Same(t, visit, events[0])
	assert.Same(t, retreat, events[1])

	status, err := payment.Classify(visit.Price, visit.PaymentType, model.FallbackVisitPrice)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCharity, status)

	assert.Equal(t, []model.CalendarEvent{retreat}, idx.EventsOn(date(2024, time.June, 8)))
}

func TestBuildIndexIsDeterministic(t *testing.T) {
	events := []model.CalendarEvent{
		&model.VisitEvent{ID: 1, Date: date(2024, time.June, 3)},
		&model.RetreatEvent{ID: 2, StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 5)},
		&model.VisitEvent{ID: 3, Date: date(2024, time.June, 3)},
	}

	first := BuildIndex(events)
	second := BuildIndex(events)

	for d := date(2024, time.May, 25); d.Before(date(2024, time.June, 15)); d = d.AddDays(1) {
		assert.Equal(t, first.EventsOn(d), second.EventsOn(d), d)
	}
	assert.Len(t, second.EventsOn(date(2024, time.June, 3)), 3)
}

func TestBuildIndexRejectsInvertedRetreat(t *testing.T) {
	bad := &model.RetreatEvent{ID: 1, StartDate: date(2024, time.June, 12), EndDate: date(2024, time.June, 8)}
	idx := BuildIndex([]model.CalendarEvent{bad, nil})

	assert.Equal(t, []model.CalendarEvent{bad}, idx.Rejected())
	assert.Empty(t, idx.Dates())
}

func TestEventsOnReturnsCopy(t *testing.T) {
	d := date(2024, time.June, 10)
	idx := BuildIndex([]model.CalendarEvent{&model.VisitEvent{ID: 1, Date: d}})

	events := idx.EventsOn(d)
	events[0] = nil

	assert.NotNil(t, idx.EventsOn(d)[0])

	var empty *Index
	assert.Empty(t, empty.EventsOn(d))
}

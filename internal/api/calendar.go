package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

func (a *Api) calendarErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidDate):
		a.badRequestResponse(w, r, err)
	case errors.Is(err, calendar.ErrFetchFailed):
		a.noDataResponse(w, r, err)
	default:
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	start, err := a.readDateQuery(qs, "start_date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}
	end, err := a.readDateQuery(qs, "end_date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}
	if start == nil || end == nil {
		a.badRequestResponse(w, r, fmt.Errorf("%w: start_date and end_date must be provided", calendar.ErrInvalidDate))
		return
	}

	filter, err := calendar.ParseEventFilter(qs.Get("event_type"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	events, err := a.calendarService.GetEvents(r.Context(), *start, *end, filter)
	if err != nil {
		a.calendarErrorResponse(w, r, err)
		return
	}

	classifier := a.settings.Classifier(r.Context())
	response := make([]*eventResponse, len(events))
	for i, e := range events {
		var status *payment.Status
		if v, ok := e.(*model.VisitEvent); ok {
			s := classifier.Visit(v.Price, v.PaymentType)
			status = &s
		}
		response[i] = mapEvent(e, status)
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getCalendarViewHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	anchor, err := a.readDateQuery(qs, "anchor")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	state := calendar.NavigationState{Anchor: a.today()}
	if anchor != nil {
		state.Anchor = *anchor
	}

	if state.Granularity, err = calendar.ParseGranularity(qs.Get("view")); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}
	if state.Filter, err = calendar.ParseEventFilter(qs.Get("filter")); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	var direction *calendar.Direction
	if nav := qs.Get("nav"); nav != "" {
		d, err := calendar.ParseDirection(nav)
		if err != nil {
			a.badRequestResponse(w, r, err)
			return
		}
		direction = &d
	}

	view, err := a.calendarService.View(r.Context(), state, direction)
	if err != nil {
		a.calendarErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapView(view), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

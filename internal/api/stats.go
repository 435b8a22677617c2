package api

import (
	"net/http"

	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/validator"
)

func (a *Api) readYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := validator.New()
	year := a.readInt(r.URL.Query(), "year", a.today().Year, v)
	v.Check(year >= 1900 && year <= 9999, "year", "must be between 1900 and 9999")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return 0, false
	}

	return year, true
}

func (a *Api) statsOverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := a.statsService.Overview(r.Context(), a.today())
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	response := mapOverview(overview, a.settings.Classifier(r.Context()))
	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) clientStatsHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := a.readIDParam(r, "clientID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	year, ok := a.readYear(w, r)
	if !ok {
		return
	}

	clientStats, err := a.statsService.ClientStats(r.Context(), clientID, year)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapClientStats(clientStats), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) yearlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	year, ok := a.readYear(w, r)
	if !ok {
		return
	}

	summary, err := a.statsService.YearlySummary(r.Context(), year)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapYearlySummary(summary), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) topicStatsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	from, err := a.readDateQuery(qs, "date_from")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}
	to, err := a.readDateQuery(qs, "date_to")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	topicStats, err := a.statsService.TopicStats(r.Context(), from, to)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	response := &struct {
		Topics      []topicCountResponse `json:"topics"`
		TotalVisits int                  `json:"total_visits"`
	}{
		Topics:      mapTopics(topicStats.Topics),
		TotalVisits: topicStats.TotalVisits,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

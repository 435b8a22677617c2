package api

import (
	"net/http"
	"strings"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/validator"
)

func (a *Api) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.Get(r.Context())
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapSettings(settings), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	current, err := a.settings.Get(r.Context())
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	input := &struct {
		DefaultVisitPrice   *model.Money `json:"default_visit_price"`
		DefaultRetreatPrice *model.Money `json:"default_retreat_price"`
		Practices           []string     `json:"practices"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	settings := *current
	if input.DefaultVisitPrice != nil {
		settings.DefaultVisitPrice = *input.DefaultVisitPrice
	}
	if input.DefaultRetreatPrice != nil {
		settings.DefaultRetreatPrice = *input.DefaultRetreatPrice
	}
	if input.Practices != nil {
		settings.Practices = make([]string, len(input.Practices))
		for i, p := range input.Practices {
			settings.Practices[i] = strings.TrimSpace(p)
		}
	}

	v := validator.New()
	v.Check(settings.DefaultVisitPrice > 0, "default_visit_price", "must be greater than zero")
	v.Check(settings.DefaultRetreatPrice > 0, "default_retreat_price", "must be greater than zero")
	for _, p := range settings.Practices {
		v.Check(len(p) <= maxNameLength, "practices", "must not contain entries longer than 100 bytes")
	}
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	updated, err := a.settings.Update(r.Context(), &settings)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapSettings(updated), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

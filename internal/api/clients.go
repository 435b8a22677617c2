package api

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxNameLength   = 100
)

func (a *Api) checkName(v *validator.Validator, key, value string, required bool) {
	value = strings.TrimSpace(value)
	if required {
		v.Check(value != "", key, "must be provided")
	}
	v.Check(len(value) <= maxNameLength, key, "must not be more than 100 bytes long")
}

func (a *Api) checkDOB(v *validator.Validator, dob civil.Date) {
	v.Check(dob.IsValid(), "dob", "must be a valid date")
	v.Check(!dob.After(a.today()), "dob", "must not be in the future")
}

func (a *Api) listClientsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filter := model.ClientsFilter{
		Search:   strings.TrimSpace(qs.Get("search")),
		SortBy:   model.ClientSortField(a.readString(qs, "sort_by", string(model.ClientSortLastName))),
		SortDesc: a.readString(qs, "order", "asc") == "desc",
		Page:     a.readInt(qs, "page", 1, v),
		PageSize: a.readInt(qs, "page_size", defaultPageSize, v),
	}

	v.Check(filter.Page > 0, "page", "must be greater than zero")
	v.Check(filter.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(filter.PageSize <= maxPageSize, "page_size", "must be a maximum of 100")
	v.Check(validator.In(string(filter.SortBy),
		string(model.ClientSortLastName), string(model.ClientSortFirstName), string(model.ClientSortCreatedAt)),
		"sort_by", "invalid sort value")
	v.Check(validator.In(a.readString(qs, "order", "asc"), "asc", "desc"), "order", "must be asc or desc")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	clients, total, err := a.clients.ListClients(r.Context(), a.db, filter)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	response := &struct {
		Items    []*clientResponse `json:"items"`
		Total    int64             `json:"total"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
	}{
		Items:    mapSlice(clients, mapClient),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createClientHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		FirstName  string     `json:"first_name"`
		MiddleName string     `json:"middle_name"`
		LastName   string     `json:"last_name"`
		DOB        civil.Date `json:"dob"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	a.checkName(v, "first_name", input.FirstName, true)
	a.checkName(v, "middle_name", input.MiddleName, false)
	a.checkName(v, "last_name", input.LastName, true)
	a.checkDOB(v, input.DOB)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	create := &model.ClientCreate{
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		LastName:   strings.TrimSpace(input.LastName),
		DOB:        input.DOB,
	}

	id, err := a.clients.CreateClient(r.Context(), a.db, create)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	client, err := a.clients.GetClient(r.Context(), a.db, id)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, mapClient(client), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getClientHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := r.Context().Value(contextKeyClient).(*model.Client)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve client"))
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapClient(client), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateClientHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := r.Context().Value(contextKeyClient).(*model.Client)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve client"))
		return
	}

	input := &struct {
		FirstName  *string     `json:"first_name"`
		MiddleName *string     `json:"middle_name"`
		LastName   *string     `json:"last_name"`
		DOB        *civil.Date `json:"dob"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	update := &model.ClientUpdate{DOB: input.DOB}
	if input.FirstName != nil {
		a.checkName(v, "first_name", *input.FirstName, true)
		update.FirstName = trimmed(*input.FirstName)
	}
	if input.MiddleName != nil {
		a.checkName(v, "middle_name", *input.MiddleName, false)
		update.MiddleName = trimmed(*input.MiddleName)
	}
	if input.LastName != nil {
		a.checkName(v, "last_name", *input.LastName, true)
		update.LastName = trimmed(*input.LastName)
	}
	if input.DOB != nil {
		a.checkDOB(v, *input.DOB)
	}
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.clients.UpdateClient(r.Context(), a.db, client.ID, update); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	client, err := a.clients.GetClient(r.Context(), a.db, client.ID)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapClient(client), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteClientHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := r.Context().Value(contextKeyClient).(*model.Client)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve client"))
		return
	}

	if err := a.clients.DeleteClient(r.Context(), a.db, client.ID); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

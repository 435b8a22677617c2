package api

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/validator"
)

const maxTopicLength = 200

func checkMoney(v *validator.Validator, key string, m model.Money) {
	v.Check(m >= 0, key, "must not be negative")
}

func checkPaymentType(v *validator.Validator, key string, t *model.PaymentType) {
	v.Check(payment.KnownType(t), key, "must be subscription or charity")
}

// readPaymentTypeUpdate maps an update field: absent keeps the value, an empty string clears it.
func readPaymentTypeUpdate(s *string) *model.PaymentType {
	if s == nil {
		return nil
	}
	if strings.TrimSpace(*s) == "" {
		empty := model.PaymentType("")
		return &empty
	}

	return payment.ParseType(*s)
}

func checkPaymentTypeUpdate(v *validator.Validator, key string, t *model.PaymentType) {
	if t != nil && *t != "" {
		checkPaymentType(v, key, t)
	}
}

func (a *Api) listClientVisitsHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := r.Context().Value(contextKeyClient).(*model.Client)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve client"))
		return
	}

	qs := r.URL.Query()
	v := validator.New()

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

	filter := model.VisitsFilter{
		ClientID: client.ID,
		From:     from,
		To:       to,
		Topic:    strings.TrimSpace(qs.Get("topic")),
		Limit:    a.readInt(qs, "limit", 0, v),
		Offset:   a.readInt(qs, "offset", 0, v),
	}
	v.Check(filter.Limit >= 0, "limit", "must not be negative")
	v.Check(filter.Limit <= maxPageSize, "limit", "must be a maximum of 100")
	v.Check(filter.Offset >= 0, "offset", "must not be negative")
	if from != nil && to != nil {
		v.Check(!to.Before(*from), "date_to", "must not be before date_from")
	}
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	visits, err := a.visits.ListVisits(r.Context(), a.db, filter)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	total, err := a.visits.CountVisits(r.Context(), a.db, filter)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	classifier := a.settings.Classifier(r.Context())
	response := &struct {
		Items []*visitResponse `json:"items"`
		Total int64            `json:"total"`
	}{
		Items: mapSlice(visits, func(v *model.VisitWithClient) *visitResponse {
			return mapVisit(v, classifier)
		}),
		Total: total,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createVisitHandler(w http.ResponseWriter, r *http.Request) {
	client, ok := r.Context().Value(contextKeyClient).(*model.Client)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve client"))
		return
	}

	input := &struct {
		Date        civil.Date   `json:"date"`
		Topic       string       `json:"topic"`
		Practices   []string     `json:"practices"`
		Notes       string       `json:"notes"`
		Price       *model.Money `json:"price"`
		Tips        model.Money  `json:"tips"`
		PaymentType string       `json:"payment_type"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	classifier := a.settings.Classifier(r.Context())
	create := &model.VisitCreate{
		ClientID:    client.ID,
		Date:        input.Date,
		Topic:       strings.TrimSpace(input.Topic),
		Practices:   model.UniquePractices(input.Practices),
		Notes:       input.Notes,
		Price:       classifier.VisitReference(),
		Tips:        input.Tips,
		PaymentType: payment.ParseType(input.PaymentType),
	}
	if input.Price != nil {
		create.Price = *input.Price
	}

	v := validator.New()
	v.Check(create.Date.IsValid(), "date", "must be a valid date")
	v.Check(len(create.Topic) <= maxTopicLength, "topic", "must not be more than 200 bytes long")
	checkMoney(v, "price", create.Price)
	checkMoney(v, "tips", create.Tips)
	checkPaymentType(v, "payment_type", create.PaymentType)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	id, err := a.visits.CreateVisit(r.Context(), a.db, create)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	visit, err := a.visits.GetVisit(r.Context(), a.db, id)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, mapVisit(visit, classifier), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateVisitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := a.readIDParam(r, "visitID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	input := &struct {
		Date        *civil.Date  `json:"date"`
		Topic       *string      `json:"topic"`
		Practices   []string     `json:"practices"`
		Notes       *string      `json:"notes"`
		Price       *model.Money `json:"price"`
		Tips        *model.Money `json:"tips"`
		PaymentType *string      `json:"payment_type"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	update := &model.VisitUpdate{
		Date:        input.Date,
		Notes:       input.Notes,
		Price:       input.Price,
		Tips:        input.Tips,
		PaymentType: readPaymentTypeUpdate(input.PaymentType),
	}
	if input.Practices != nil {
		update.Practices = model.UniquePractices(input.Practices)
	}

	v := validator.New()
	if input.Date != nil {
		v.Check(input.Date.IsValid(), "date", "must be a valid date")
	}
	if input.Topic != nil {
		update.Topic = trimmed(*input.Topic)
		v.Check(len(*update.Topic) <= maxTopicLength, "topic", "must not be more than 200 bytes long")
	}
	if input.Price != nil {
		checkMoney(v, "price", *input.Price)
	}
	if input.Tips != nil {
		checkMoney(v, "tips", *input.Tips)
	}
	checkPaymentTypeUpdate(v, "payment_type", update.PaymentType)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.visits.UpdateVisit(r.Context(), a.db, id, update); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	visit, err := a.visits.GetVisit(r.Context(), a.db, id)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapVisit(visit, a.settings.Classifier(r.Context())), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteVisitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := a.readIDParam(r, "visitID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.visits.DeleteVisit(r.Context(), a.db, id); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) listTopicsHandler(w http.ResponseWriter, r *http.Request) {
	topics, err := a.visits.ListTopics(r.Context(), a.db)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}

	if err := a.writeJSON(w, http.StatusOK, topics, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

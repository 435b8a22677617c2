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

func checkRetreatDates(v *validator.Validator, start, end civil.Date) {
	v.Check(start.IsValid(), "start_date", "must be a valid date")
	v.Check(end.IsValid(), "end_date", "must be a valid date")
	v.Check(!end.Before(start), "end_date", "must not be before start_date")
}

func checkParticipantState(v *validator.Validator, s model.PaymentState) {
	v.Check(s.Valid(), "payment_state", "must be paid, partial or not_paid")
}

// writeRetreat reloads the retreat and writes it with the given status.
func (a *Api) writeRetreat(w http.ResponseWriter, r *http.Request, status int, id int64) {
	retreat, err := a.retreats.GetRetreat(r.Context(), a.db, id)
	if err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, status, mapRetreat(retreat, a.settings.Classifier(r.Context())), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) listRetreatsHandler(w http.ResponseWriter, r *http.Request) {
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

	retreats, err := a.retreats.ListRetreats(r.Context(), a.db, model.RetreatsFilter{From: from, To: to})
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	classifier := a.settings.Classifier(r.Context())
	response := mapSlice(retreats, func(rt *model.Retreat) *retreatResponse {
		return mapRetreat(rt, classifier)
	})

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createRetreatHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		Name      string     `json:"name"`
		StartDate civil.Date `json:"start_date"`
		EndDate   civil.Date `json:"end_date"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	create := &model.RetreatCreate{
		Name:      strings.TrimSpace(input.Name),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	v := validator.New()
	a.checkName(v, "name", create.Name, true)
	checkRetreatDates(v, create.StartDate, create.EndDate)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	id, err := a.retreats.CreateRetreat(r.Context(), a.db, create)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	a.writeRetreat(w, r, http.StatusCreated, id)
}

func (a *Api) getRetreatHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapRetreat(retreat, a.settings.Classifier(r.Context())), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateRetreatHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	input := &struct {
		Name      *string     `json:"name"`
		StartDate *civil.Date `json:"start_date"`
		EndDate   *civil.Date `json:"end_date"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	update := &model.RetreatUpdate{StartDate: input.StartDate, EndDate: input.EndDate}
	start, end := retreat.StartDate, retreat.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}

	v := validator.New()
	if input.Name != nil {
		update.Name = trimmed(*input.Name)
		a.checkName(v, "name", *update.Name, true)
	}
	checkRetreatDates(v, start, end)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.retreats.UpdateRetreat(r.Context(), a.db, retreat.ID, update); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	a.writeRetreat(w, r, http.StatusOK, retreat.ID)
}

func (a *Api) deleteRetreatHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	if err := a.retreats.DeleteRetreat(r.Context(), a.db, retreat.ID); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) addParticipantHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	input := &struct {
		ClientID     int64              `json:"client_id"`
		Payment      *model.Money       `json:"payment"`
		PaymentState model.PaymentState `json:"payment_state"`
		PaymentType  string             `json:"payment_type"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	participant := &model.Participant{
		RetreatID:    retreat.ID,
		ClientID:     input.ClientID,
		Payment:      a.settings.Classifier(r.Context()).RetreatReference(),
		PaymentState: input.PaymentState,
		PaymentType:  payment.ParseType(input.PaymentType),
	}
	if input.Payment != nil {
		participant.Payment = *input.Payment
	}
	if participant.PaymentState == "" {
		participant.PaymentState = model.PaymentStateNotPaid
	}

	v := validator.New()
	v.Check(participant.ClientID > 0, "client_id", "must be provided")
	checkMoney(v, "payment", participant.Payment)
	checkParticipantState(v, participant.PaymentState)
	checkPaymentType(v, "payment_type", participant.PaymentType)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.retreats.AddParticipant(r.Context(), a.db, participant); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyExists):
			a.conflictResponse(w, r, "client already participates in this retreat")
		case errors.Is(err, model.ErrNoRecord):
			a.failedValidationResponse(w, r, map[string]string{"client_id": "client does not exist"})
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	a.writeRetreat(w, r, http.StatusCreated, retreat.ID)
}

func (a *Api) updateParticipantHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	clientID, err := a.readIDParam(r, "clientID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	input := &struct {
		Payment      *model.Money        `json:"payment"`
		PaymentState *model.PaymentState `json:"payment_state"`
		PaymentType  *string             `json:"payment_type"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	update := &model.ParticipantUpdate{
		Payment:      input.Payment,
		PaymentState: input.PaymentState,
		PaymentType:  readPaymentTypeUpdate(input.PaymentType),
	}

	v := validator.New()
	if input.Payment != nil {
		checkMoney(v, "payment", *input.Payment)
	}
	if input.PaymentState != nil {
		checkParticipantState(v, *input.PaymentState)
	}
	checkPaymentTypeUpdate(v, "payment_type", update.PaymentType)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.retreats.UpdateParticipant(r.Context(), a.db, retreat.ID, clientID, update); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	a.writeRetreat(w, r, http.StatusOK, retreat.ID)
}

func (a *Api) removeParticipantHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	clientID, err := a.readIDParam(r, "clientID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.retreats.RemoveParticipant(r.Context(), a.db, retreat.ID, clientID); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) addExpenseHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	input := &struct {
		Name   string      `json:"name"`
		Amount model.Money `json:"amount"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	expense := &model.Expense{
		RetreatID: retreat.ID,
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
	}

	v := validator.New()
	a.checkName(v, "name", expense.Name, true)
	checkMoney(v, "amount", expense.Amount)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if _, err := a.retreats.AddExpense(r.Context(), a.db, expense); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	a.writeRetreat(w, r, http.StatusCreated, retreat.ID)
}

func (a *Api) removeExpenseHandler(w http.ResponseWriter, r *http.Request) {
	retreat, ok := r.Context().Value(contextKeyRetreat).(*model.Retreat)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve retreat"))
		return
	}

	expenseID, err := a.readIDParam(r, "expenseID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.retreats.RemoveExpense(r.Context(), a.db, retreat.ID, expenseID); err != nil {
		a.lookupErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

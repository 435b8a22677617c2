package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	business_calendar "github.com/SergeyKozhin/kinesio-crm/internal/business/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/auth"
	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "valid-token"

var testToday = civil.Date{Year: 2024, Month: 6, Day: 15}

type stubJWT struct{}

func (stubJWT) GetIdFromToken(token string) (int64, error) {
	if token != testToken {
		return 0, &jwt.InvalidTokenError{}
	}
	return 1, nil
}

type stubAuth struct {
	authService
	register func(email, password string) (*model.User, *auth.Tokens, error)
}

func (s *stubAuth) Register(_ context.Context, email, password string) (*model.User, *auth.Tokens, error) {
	return s.register(email, password)
}

type stubClients struct {
	clientRepository
	clients map[int64]*model.Client
}

func (s *stubClients) GetClient(_ context.Context, _ database.Queryable, id int64) (*model.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return nil, fmt.Errorf("SQL request: %w", model.ErrNoRecord)
	}
	return c, nil
}

type stubVisits struct {
	visitRepository
	created *model.VisitCreate
}

func (s *stubVisits) CreateVisit(_ context.Context, _ database.Queryable, visit *model.VisitCreate) (int64, error) {
	s.created = visit
	return 7, nil
}

func (s *stubVisits) GetVisit(_ context.Context, _ database.Queryable, id int64) (*model.VisitWithClient, error) {
	if s.created == nil {
		return nil, model.ErrNoRecord
	}
	return &model.VisitWithClient{
		Visit:      model.Visit{ID: id, VisitCreate: *s.created},
		ClientName: "Анна Петрова",
	}, nil
}

func (s *stubVisits) UpdateVisit(context.Context, database.Queryable, int64, *model.VisitUpdate) error {
	return model.ErrNoRecord
}

type stubRetreats struct {
	retreatRepository
	retreat *model.Retreat
	addErr  error
}

func (s *stubRetreats) GetRetreat(_ context.Context, _ database.Queryable, id int64) (*model.Retreat, error) {
	if s.retreat == nil || s.retreat.ID != id {
		return nil, model.ErrNoRecord
	}
	return s.retreat, nil
}

func (s *stubRetreats) AddParticipant(_ context.Context, _ database.Queryable, p *model.Participant) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.retreat.Participants = append(s.retreat.Participants, p)
	return nil
}

type stubSettings struct {
	settingsService
}

func (stubSettings) Classifier(context.Context) *payment.Classifier {
	return payment.NewClassifier(nil, false, nil)
}

type stubCalendar struct {
	events    []model.CalendarEvent
	view      *business_calendar.View
	err       error
	state     calendar.NavigationState
	direction *calendar.Direction
}

func (s *stubCalendar) GetEvents(_ context.Context, start, end civil.Date, _ calendar.EventFilter) ([]model.CalendarEvent, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", calendar.ErrInvalidDate)
	}
	return s.events, s.err
}

func (s *stubCalendar) View(_ context.Context, state calendar.NavigationState, direction *calendar.Direction) (*business_calendar.View, error) {
	s.state = state
	s.direction = direction
	return s.view, s.err
}

type testDeps struct {
	auth     *stubAuth
	clients  *stubClients
	visits   *stubVisits
	retreats *stubRetreats
	calendar *stubCalendar
}

func newTestApi(t *testing.T, deps *testDeps) *Api {
	t.Helper()

	if deps.auth == nil {
		deps.auth = &stubAuth{}
	}
	if deps.clients == nil {
		deps.clients = &stubClients{}
	}
	if deps.visits == nil {
		deps.visits = &stubVisits{}
	}
	if deps.retreats == nil {
		deps.retreats = &stubRetreats{}
	}
	if deps.calendar == nil {
		deps.calendar = &stubCalendar{}
	}

	a, err := NewApi(
		zap.NewNop().Sugar(),
		Options{
			CorsOrigins: []string{"http://localhost:3000"},
			Today:       func() civil.Date { return testToday },
		},
		stubJWT{},
		deps.auth,
		nil,
		nil,
		deps.clients,
		deps.visits,
		deps.retreats,
		stubSettings{},
		deps.calendar,
		nil,
	)
	require.NoError(t, err)

	return a
}

func do(t *testing.T, a *Api, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+testToken)

	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, req)

	var data map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rr.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &data))
	}

	return rr, data
}

func TestHealthcheck(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthRequired(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/clients/1", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rr = httptest.NewRecorder()
	a.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCorsPreflight(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	a.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterClosed(t *testing.T) {
	deps := &testDeps{auth: &stubAuth{
		register: func(string, string) (*model.User, *auth.Tokens, error) {
			return nil, nil, auth.ErrRegistrationClosed
		},
	}}
	a := newTestApi(t, deps)

	rr, _ := do(t, a, http.MethodPost, "/api/auth/register", `{"email":"a@b.ru","password":"secret-password"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, data := do(t, a, http.MethodPost, "/api/auth/register", `{"email":"nope","password":"short"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	errs := data["error"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestClientNotFound(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	rr, _ := do(t, a, http.MethodGet, "/api/clients/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, a, http.MethodGet, "/api/clients/abc", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateVisit(t *testing.T) {
	deps := &testDeps{clients: &stubClients{clients: map[int64]*model.Client{
		3: {ID: 3, ClientCreate: model.ClientCreate{FirstName: "Анна", LastName: "Петрова"}},
	}}}
	a := newTestApi(t, deps)

	t.Run("default price is the reference", func(t *testing.T) {
		rr, data := do(t, a, http.MethodPost, "/api/clients/3/visits",
			`{"date":"2024-06-10","topic":"Спина","practices":["ТСЯ","ТСЯ","Лепило"]}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		assert.Equal(t, float64(model.FallbackVisitPrice), data["price"])
		assert.Equal(t, string(payment.StatusStandard), data["payment_status"])
		assert.Equal(t, payment.StatusStandard.Label(), data["payment_label"])
		assert.Equal(t, []interface{}{"ТСЯ", "Лепило"}, data["practices"])
		assert.Equal(t, "2024-06-10", data["date"])
	})

	t.Run("zero price subscription", func(t *testing.T) {
		rr, data := do(t, a, http.MethodPost, "/api/clients/3/visits",
			`{"date":"2024-06-11","price":0,"payment_type":"абонемент"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		assert.Equal(t, string(payment.StatusSubscription), data["payment_status"])
		assert.Equal(t, string(model.PaymentTypeSubscription), data["payment_type"])
	})

	t.Run("negative price", func(t *testing.T) {
		rr, data := do(t, a, http.MethodPost, "/api/clients/3/visits", `{"date":"2024-06-11","price":-5}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, data["error"], "price")
	})

	t.Run("unknown payment type", func(t *testing.T) {
		rr, data := do(t, a, http.MethodPost, "/api/clients/3/visits", `{"date":"2024-06-11","payment_type":"barter"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, data["error"], "payment_type")
	})

	t.Run("impossible date", func(t *testing.T) {
		rr, _ := do(t, a, http.MethodPost, "/api/clients/3/visits", `{"date":"2024-02-31"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateMissingVisit(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	rr, _ := do(t, a, http.MethodPut, "/api/visits/9", `{"topic":"Шея"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddParticipant(t *testing.T) {
	retreat := &model.Retreat{ID: 5, RetreatCreate: model.RetreatCreate{
		Name:      "Алтай",
		StartDate: civil.Date{Year: 2024, Month: 6, Day: 8},
		EndDate:   civil.Date{Year: 2024, Month: 6, Day: 12},
	}}
	deps := &testDeps{retreats: &stubRetreats{retreat: retreat}}
	a := newTestApi(t, deps)

	rr, data := do(t, a, http.MethodPost, "/api/retreats/5/participants", `{"client_id":3,"payment":20000}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, float64(20000), data["total_revenue"])

	participants := data["participants"].([]interface{})
	require.Len(t, participants, 1)
	p := participants[0].(map[string]interface{})
	assert.Equal(t, string(model.PaymentStateNotPaid), p["payment_state"])
	assert.Equal(t, string(payment.StatusDiscounted), p["payment_status"])

	deps.retreats.addErr = fmt.Errorf("SQL request: %w", model.ErrAlreadyExists)
	rr, _ = do(t, a, http.MethodPost, "/api/retreats/5/participants", `{"client_id":3}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, _ = do(t, a, http.MethodPost, "/api/retreats/6/participants", `{"client_id":3}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetEvents(t *testing.T) {
	deps := &testDeps{calendar: &stubCalendar{events: []model.CalendarEvent{
		&model.VisitEvent{ID: 1, Date: civil.Date{Year: 2024, Month: 6, Day: 10}, ClientID: 3, Title: "Анна Петрова"},
		&model.RetreatEvent{
			ID:        2,
			StartDate: civil.Date{Year: 2024, Month: 6, Day: 8},
			EndDate:   civil.Date{Year: 2024, Month: 6, Day: 12},
			Title:     "Алтай",
		},
	}}}
	a := newTestApi(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events?start_date=2024-06-01&end_date=2024-06-30", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	a.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 2)

	assert.Equal(t, "visit", events[0]["type"])
	assert.Equal(t, string(payment.StatusCharity), events[0]["payment_status"])
	assert.Equal(t, "2024-06-10", events[0]["date"])

	assert.Equal(t, "retreat", events[1]["type"])
	assert.NotContains(t, events[1], "payment_status")
	assert.Equal(t, "2024-06-12", events[1]["end_date"])
}

func TestGetEventsInvalidDates(t *testing.T) {
	a := newTestApi(t, &testDeps{})

	for _, target := range []string{
		"/api/calendar/events?start_date=2024-02-31&end_date=2024-03-01",
		"/api/calendar/events?start_date=2024-06-30&end_date=2024-06-01",
		"/api/calendar/events?start_date=2024-06-01",
		"/api/calendar/events?start_date=2024-06-01&end_date=2024-06-30&event_type=meetings",
	} {
		rr, _ := do(t, a, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestCalendarView(t *testing.T) {
	d := civil.Date{Year: 2024, Month: 6, Day: 15}
	status := payment.StatusDiscounted
	cal := &stubCalendar{view: &business_calendar.View{
		State: calendar.NavigationState{Anchor: d, Granularity: calendar.GranularityDay, Filter: calendar.FilterAll},
		Range: calendar.FetchRange{Start: d, End: d},
		Today: testToday,
		Weeks: [][]*business_calendar.Day{{{
			Date:    d,
			InMonth: true,
			Events: []*business_calendar.Event{{
				CalendarEvent: &model.VisitEvent{ID: 1, Date: d, Price: 7000},
				Status:        &status,
			}},
		}}},
	}}
	a := newTestApi(t, &testDeps{calendar: cal})

	rr, data := do(t, a, http.MethodGet, "/api/calendar/view?anchor=2024-06-14&view=day&nav=next", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, civil.Date{Year: 2024, Month: 6, Day: 14}, cal.state.Anchor)
	assert.Equal(t, calendar.GranularityDay, cal.state.Granularity)
	assert.Equal(t, calendar.FilterAll, cal.state.Filter)
	require.NotNil(t, cal.direction)
	assert.Equal(t, calendar.DirectionNext, *cal.direction)

	assert.Equal(t, "2024-06-15", data["anchor"])
	day := data["weeks"].([]interface{})[0].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, day["is_today"])
	event := day["events"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, payment.StatusDiscounted.BadgeColor(), event["payment_color"])
}

func TestCalendarViewErrors(t *testing.T) {
	cal := &stubCalendar{err: fmt.Errorf("%w: db down", calendar.ErrFetchFailed)}
	a := newTestApi(t, &testDeps{calendar: cal})

	rr, data := do(t, a, http.MethodGet, "/api/calendar/view", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "no data for this range", data["error"])
	assert.Equal(t, testToday, cal.state.Anchor)
	assert.Equal(t, calendar.GranularityMonth, cal.state.Granularity)
	assert.Nil(t, cal.direction)

	cal.err = errors.New("unexpected")
	rr, _ = do(t, a, http.MethodGet, "/api/calendar/view", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	for _, target := range []string{
		"/api/calendar/view?anchor=2023-02-29",
		"/api/calendar/view?view=year",
		"/api/calendar/view?nav=sideways",
	} {
		rr, _ := do(t, a, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

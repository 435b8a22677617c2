package stats

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func visit(clientID int64, name string, d civil.Date, topic string, price model.Money, practices ...string) *model.VisitWithClient {
	return &model.VisitWithClient{
		Visit: model.Visit{VisitCreate: model.VisitCreate{
			ClientID:  clientID,
			Date:      d,
			Topic:     topic,
			Price:     price,
			Practices: practices,
		}},
		ClientName: name,
	}
}

type stubClients struct {
	client *model.Client
	count  int64
}

func (s *stubClients) GetClient(context.Context, database.Queryable, int64) (*model.Client, error) {
	if s.client == nil {
		return nil, model.ErrNoRecord
	}
	return s.client, nil
}

func (s *stubClients) CountClients(context.Context, database.Queryable) (int64, error) {
	return s.count, nil
}

// stubVisits filters like the repository does and keeps newest first.
type stubVisits struct {
	visits []*model.VisitWithClient
}

func (s *stubVisits) ListVisits(_ context.Context, _ database.Queryable, f model.VisitsFilter) ([]*model.VisitWithClient, error) {
	var res []*model.VisitWithClient
	for _, v := range s.visits {
		if f.ClientID != 0 && v.ClientID != f.ClientID {
			continue
		}
		if f.From != nil && v.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && v.Date.After(*f.To) {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

type stubRetreats struct {
	retreats []*model.Retreat
}

func (s *stubRetreats) ListRetreats(context.Context, database.Queryable, model.RetreatsFilter) ([]*model.Retreat, error) {
	return s.retreats, nil
}

type defaultClassifier struct{}

func (defaultClassifier) Classifier(context.Context) *payment.Classifier {
	return payment.NewClassifier(nil, true, nil)
}

func TestAvgCheckRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		revenue model.Money
		visits  int
		want    model.Money
	}{
		{0, 0, 0},
		{5, 2, 2},
		{7, 2, 4},
		{30000, 2, 15000},
		{10, 3, 3},
		{20, 3, 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AvgCheck(tt.revenue, tt.visits), "%v/%v", tt.revenue, tt.visits)
	}
}

func TestCountTopicsOrder(t *testing.T) {
	visits := []*model.VisitWithClient{
		visit(1, "", date(2024, time.June, 1), "Шея", 0),
		visit(1, "", date(2024, time.June, 2), "Спина", 0),
		visit(1, "", date(2024, time.June, 3), "Шея", 0),
		visit(1, "", date(2024, time.June, 4), "", 0),
		visit(1, "", date(2024, time.June, 5), "Голова", 0),
	}

	assert.Equal(t, []TopicCount{{"Шея", 2}, {"Голова", 1}, {"Спина", 1}}, countTopics(visits))
}

func TestCountMonthsCoversTwelveMonths(t *testing.T) {
	visits := []*model.VisitWithClient{
		visit(1, "", date(2024, time.June, 30), "", 0),
		visit(1, "", date(2024, time.June, 1), "", 0),
		visit(1, "", date(2023, time.July, 15), "", 0),
		visit(1, "", date(2023, time.June, 30), "", 0),
	}

	months := countMonths(visits, date(2024, time.June, 15), 12)
	require.Len(t, months, 12)
	assert.Equal(t, date(2023, time.July, 1), months[0].Month)
	assert.Equal(t, "Jul 2023", months[0].Label)
	assert.Equal(t, 1, months[0].Visits)
	assert.Equal(t, date(2024, time.June, 1), months[11].Month)
	assert.Equal(t, 2, months[11].Visits)
}

func TestOverview(t *testing.T) {
	sub := model.PaymentTypeSubscription
	free := visit(2, "Иван Петров", date(2024, time.June, 10), "Шея", 0)
	free.PaymentType = &sub

	visits := &stubVisits{visits: []*model.VisitWithClient{
		visit(1, "Анна Иванова", date(2024, time.June, 14), "Спина", 15000, "ТСЯ", "Лепило"),
		free,
		visit(1, "Анна Иванова", date(2024, time.February, 1), "Спина", 10000, "ТСЯ"),
		visit(1, "Анна Иванова", date(2023, time.December, 20), "Шея", 15000),
	}}
	retreats := &stubRetreats{retreats: []*model.Retreat{{
		Participants: []*model.Participant{{Payment: 30000}, {Payment: 20000}},
		Expenses:     []*model.Expense{{Amount: 15000}},
	}}}
	s := NewService(nil, &stubClients{count: 2}, visits, retreats, defaultClassifier{})

	o, err := s.Overview(context.Background(), date(2024, time.June, 15))
	require.NoError(t, err)

	assert.Equal(t, int64(2), o.TotalClients)
	assert.Equal(t, 3, o.VisitsYTD)
	assert.Equal(t, 2, o.VisitsLast30)
	assert.Equal(t, []TopicCount{{"Спина", 2}, {"Шея", 2}}, o.TopTopics)
	assert.Len(t, o.RecentVisits, 4)

	assert.Equal(t, Money{Revenue: 25000, Visits: 3, AvgCheck: 8333}, o.FinancialYTD)
	assert.Equal(t, Money{Revenue: 15000, Visits: 2, AvgCheck: 7500}, o.FinancialLast30)
	assert.Equal(t, RetreatMoney{Revenue: 50000, Expenses: 15000, Profit: 35000, Retreats: 1}, o.RetreatsYTD)
	assert.Equal(t, []PracticeCount{{"ТСЯ", 2}, {"Лепило", 1}}, o.PracticesYTD)

	byStatus := map[payment.Status]int{}
	for _, sc := range o.PaymentsYTD {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, map[payment.Status]int{
		payment.StatusStandard:     1,
		payment.StatusDiscounted:   1,
		payment.StatusCharity:      0,
		payment.StatusSubscription: 1,
	}, byStatus)
}

func TestClientStats(t *testing.T) {
	client := &model.Client{ID: 1}
	visits := &stubVisits{visits: []*model.VisitWithClient{
		visit(1, "", date(2024, time.March, 3), "Спина", 15000),
		visit(1, "", date(2024, time.March, 20), "Спина", 15000),
		visit(2, "", date(2024, time.March, 21), "Шея", 15000),
		visit(1, "", date(2023, time.March, 3), "Шея", 15000),
	}}
	s := NewService(nil, &stubClients{client: client}, visits, &stubRetreats{}, defaultClassifier{})

	cs, err := s.ClientStats(context.Background(), 1, 2024)
	require.NoError(t, err)
	assert.Same(t, client, cs.Client)
	assert.Equal(t, 2, cs.TotalVisits)
	assert.Equal(t, []TopicCount{{"Спина", 2}}, cs.Topics)
	require.Len(t, cs.VisitsByMonth, 12)
	assert.Equal(t, "Mar", cs.VisitsByMonth[2].Label)
	assert.Equal(t, 2, cs.VisitsByMonth[2].Visits)

	s = NewService(nil, &stubClients{}, visits, &stubRetreats{}, defaultClassifier{})
	_, err = s.ClientStats(context.Background(), 7, 2024)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestYearlySummary(t *testing.T) {
	visits := &stubVisits{visits: []*model.VisitWithClient{
		visit(2, "Иван Петров", date(2024, time.May, 1), "Шея", 15000),
		visit(1, "Анна Иванова", date(2024, time.April, 1), "Спина", 10000),
		visit(2, "Иван Петров", date(2024, time.March, 1), "Шея", 15000),
		visit(3, "Ольга Смирнова", date(2024, time.February, 1), "Голова", 5000),
		visit(1, "Анна Иванова", date(2023, time.March, 1), "Спина", 15000),
	}}
	s := NewService(nil, &stubClients{}, visits, &stubRetreats{}, defaultClassifier{})

	y, err := s.YearlySummary(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, 3, y.ActiveClients)
	assert.Equal(t, 4, y.TotalVisits)
	assert.Equal(t, model.Money(45000), y.TotalRevenue)
	assert.Equal(t, model.Money(11250), y.AvgCheck)

	require.Len(t, y.ClientSummaries, 3)
	assert.Equal(t, int64(2), y.ClientSummaries[0].ClientID)
	assert.Equal(t, 2, y.ClientSummaries[0].VisitCount)
	assert.Equal(t, model.Money(30000), y.ClientSummaries[0].Revenue)
	assert.Equal(t, int64(1), y.ClientSummaries[1].ClientID)
	assert.Equal(t, int64(3), y.ClientSummaries[2].ClientID)
	assert.Equal(t, []TopicCount{{"Шея", 2}, {"Голова", 1}, {"Спина", 1}}, y.TopicDistribution)
}

package stats

import (
	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

type TopicCount struct {
	Topic string
	Count int
}

type PracticeCount struct {
	Practice string
	Count    int
}

type MonthCount struct {
	Month  civil.Date
	Label  string
	Visits int
}

type StatusCount struct {
	Status payment.Status
	Count  int
	Amount model.Money
}

// Money is the revenue summary of a set of visits.
type Money struct {
	Revenue  model.Money
	Tips     model.Money
	Visits   int
	AvgCheck model.Money
}

type RetreatMoney struct {
	Revenue  model.Money
	Expenses model.Money
	Profit   model.Money
	Retreats int
}

type Overview struct {
	TotalClients    int64
	VisitsYTD       int
	VisitsLast30    int
	TopTopics       []TopicCount
	RecentVisits    []*model.VisitWithClient
	VisitsOverTime  []MonthCount
	FinancialYTD    Money
	FinancialLast30 Money
	RetreatsYTD     RetreatMoney
	PracticesYTD    []PracticeCount
	PaymentsYTD     []StatusCount
}

type ClientStats struct {
	Client        *model.Client
	Year          int
	TotalVisits   int
	Topics        []TopicCount
	VisitsByMonth []MonthCount
	Financial     Money
}

type ClientSummary struct {
	ClientID   int64
	ClientName string
	VisitCount int
	Revenue    model.Money
	Tips       model.Money
	Topics     []TopicCount
}

type YearlySummary struct {
	Year              int
	ActiveClients     int
	TotalVisits       int
	TotalRevenue      model.Money
	TotalTips         model.Money
	AvgCheck          model.Money
	ClientSummaries   []ClientSummary
	TopicDistribution []TopicCount
	Retreats          RetreatMoney
}

type TopicStats struct {
	Topics      []TopicCount
	TotalVisits int
}

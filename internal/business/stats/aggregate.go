package stats

import (
	"math"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

// AvgCheck is revenue per visit rounded half to even, zero without visits.
func AvgCheck(revenue model.Money, visits int) model.Money {
	if visits == 0 {
		return 0
	}

	return model.Money(math.RoundToEven(float64(revenue) / float64(visits)))
}

func summarize(visits []*model.VisitWithClient) Money {
	var m Money
	for _, v := range visits {
		m.Revenue += v.Price
		m.Tips += v.Tips
	}
	m.Visits = len(visits)
	m.AvgCheck = AvgCheck(m.Revenue, m.Visits)

	return m
}

func summarizeRetreats(retreats []*model.Retreat) RetreatMoney {
	var m RetreatMoney
	for _, r := range retreats {
		m.Revenue += r.TotalRevenue()
		m.Expenses += r.TotalExpenses()
	}
	m.Profit = m.Revenue - m.Expenses
	m.Retreats = len(retreats)

	return m
}

// countTopics counts visits per topic, most frequent first, ties by topic name.
// Visits without a topic are not counted.
func countTopics(visits []*model.VisitWithClient) []TopicCount {
	counts := map[string]int{}
	for _, v := range visits {
		if v.Topic != "" {
			counts[v.Topic]++
		}
	}

	res := make([]TopicCount, 0, len(counts))
	for t, c := range counts {
		res = append(res, TopicCount{Topic: t, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Topic < res[j].Topic
	})

	return res
}

func countPractices(visits []*model.VisitWithClient) []PracticeCount {
	counts := map[string]int{}
	for _, v := range visits {
		for _, p := range model.UniquePractices(v.Practices) {
			counts[p]++
		}
	}

	res := make([]PracticeCount, 0, len(counts))
	for p, c := range counts {
		res = append(res, PracticeCount{Practice: p, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Practice < res[j].Practice
	})

	return res
}

// countStatuses classifies every visit and counts them per status in Statuses order.
func countStatuses(visits []*model.VisitWithClient, classifier *payment.Classifier) []StatusCount {
	byStatus := map[payment.Status]*StatusCount{}
	for _, s := range payment.Statuses {
		byStatus[s] = &StatusCount{Status: s}
	}

	for _, v := range visits {
		sc := byStatus[classifier.Visit(v.Price, v.PaymentType)]
		sc.Count++
		sc.Amount += v.Price
	}

	res := make([]StatusCount, len(payment.Statuses))
	for i, s := range payment.Statuses {
		res[i] = *byStatus[s]
	}

	return res
}

// countMonths counts visits per calendar month for the n months ending with last's month.
func countMonths(visits []*model.VisitWithClient, last civil.Date, n int) []MonthCount {
	end := calendar.StartOfMonth(last)

	res := make([]MonthCount, n)
	index := make(map[civil.Date]int, n)
	for i := 0; i < n; i++ {
		m := calendar.AddMonths(end, i-n+1)
		res[i] = MonthCount{Month: m, Label: monthLabel(m)}
		index[m] = i
	}

	for _, v := range visits {
		if i, ok := index[calendar.StartOfMonth(v.Date)]; ok {
			res[i].Visits++
		}
	}

	return res
}

func monthLabel(m civil.Date) string {
	return m.In(time.UTC).Format("Jan 2006")
}

func shortMonthLabel(m civil.Date) string {
	return m.In(time.UTC).Format("Jan")
}

func inRange(visits []*model.VisitWithClient, from, to civil.Date) []*model.VisitWithClient {
	var res []*model.VisitWithClient
	for _, v := range visits {
		if !v.Date.Before(from) && !v.Date.After(to) {
			res = append(res, v)
		}
	}

	return res
}

// clientSummaries groups visits per client, most visits first, ties by client id.
func clientSummaries(visits []*model.VisitWithClient) []ClientSummary {
	byClient := map[int64][]*model.VisitWithClient{}
	for _, v := range visits {
		byClient[v.ClientID] = append(byClient[v.ClientID], v)
	}

	res := make([]ClientSummary, 0, len(byClient))
	for id, vs := range byClient {
		m := summarize(vs)
		res = append(res, ClientSummary{
			ClientID:   id,
			ClientName: vs[0].ClientName,
			VisitCount: m.Visits,
			Revenue:    m.Revenue,
			Tips:       m.Tips,
			Topics:     countTopics(vs),
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].VisitCount != res[j].VisitCount {
			return res[i].VisitCount > res[j].VisitCount
		}
		return res[i].ClientID < res[j].ClientID
	})

	return res
}

// yearMonths counts visits in each month of year, January first.
func yearMonths(visits []*model.VisitWithClient, year int) []MonthCount {
	res := countMonths(visits, civil.Date{Year: year, Month: time.December, Day: 1}, 12)
	for i := range res {
		res[i].Label = shortMonthLabel(res[i].Month)
	}

	return res
}

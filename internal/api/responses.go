package api

import (
	"time"

	"cloud.google.com/go/civil"
	business_calendar "github.com/SergeyKozhin/kinesio-crm/internal/business/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/stats"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

type paymentBadge struct {
	PaymentStatus payment.Status `json:"payment_status"`
	PaymentLabel  string         `json:"payment_label"`
	PaymentColor  string         `json:"payment_color"`
}

func badge(status payment.Status) paymentBadge {
	return paymentBadge{
		PaymentStatus: status,
		PaymentLabel:  status.Label(),
		PaymentColor:  status.BadgeColor(),
	}
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func mapUser(u *model.User) *userResponse {
	return &userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type tokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type clientResponse struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	MiddleName string     `json:"middle_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	DOB        civil.Date `json:"dob"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func mapClient(c *model.Client) *clientResponse {
	return &clientResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		MiddleName: c.MiddleName,
		LastName:   c.LastName,
		FullName:   c.FullName(),
		DOB:        c.DOB,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

type visitResponse struct {
	ID          int64              `json:"id"`
	ClientID    int64              `json:"client_id"`
	ClientName  string             `json:"client_name"`
	Date        civil.Date         `json:"date"`
	Topic       string             `json:"topic"`
	Practices   []string           `json:"practices"`
	Notes       string             `json:"notes"`
	Price       model.Money        `json:"price"`
	Tips        model.Money        `json:"tips"`
	PaymentType *model.PaymentType `json:"payment_type"`
	paymentBadge
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mapVisit(v *model.VisitWithClient, classifier *payment.Classifier) *visitResponse {
	practices := v.Practices
	if practices == nil {
		practices = []string{}
	}

	return &visitResponse{
		ID:           v.ID,
		ClientID:     v.ClientID,
		ClientName:   v.ClientName,
		Date:         v.Date,
		Topic:        v.Topic,
		Practices:    practices,
		Notes:        v.Notes,
		Price:        v.Price,
		Tips:         v.Tips,
		PaymentType:  v.PaymentType,
		paymentBadge: badge(classifier.Visit(v.Price, v.PaymentType)),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

type participantResponse struct {
	ClientID     int64              `json:"client_id"`
	ClientName   string             `json:"client_name"`
	Payment      model.Money        `json:"payment"`
	PaymentState model.PaymentState `json:"payment_state"`
	PaymentType  *model.PaymentType `json:"payment_type"`
	paymentBadge
}

type expenseResponse struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Amount model.Money `json:"amount"`
}

type retreatResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	StartDate     civil.Date             `json:"start_date"`
	EndDate       civil.Date             `json:"end_date"`
	Participants  []*participantResponse `json:"participants"`
	Expenses      []*expenseResponse     `json:"expenses"`
	TotalRevenue  model.Money            `json:"total_revenue"`
	TotalExpenses model.Money            `json:"total_expenses"`
	NetProfit     model.Money            `json:"net_profit"`
	CreatedAt     time.Time              `json:"created_at"`
}

func mapRetreat(r *model.Retreat, classifier *payment.Classifier) *retreatResponse {
	return &retreatResponse{
		ID:        r.ID,
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Participants: mapSlice(r.Participants, func(p *model.Participant) *participantResponse {
			return &participantResponse{
				ClientID:     p.ClientID,
				ClientName:   p.ClientName,
				Payment:      p.Payment,
				PaymentState: p.PaymentState,
				PaymentType:  p.PaymentType,
				paymentBadge: badge(classifier.Retreat(p.Payment, p.PaymentType)),
			}
		}),
		Expenses: mapSlice(r.Expenses, func(e *model.Expense) *expenseResponse {
			return &expenseResponse{ID: e.ID, Name: e.Name, Amount: e.Amount}
		}),
		TotalRevenue:  r.TotalRevenue(),
		TotalExpenses: r.TotalExpenses(),
		NetProfit:     r.NetProfit(),
		CreatedAt:     r.CreatedAt,
	}
}

type settingsResponse struct {
	DefaultVisitPrice   model.Money `json:"default_visit_price"`
	DefaultRetreatPrice model.Money `json:"default_retreat_price"`
	Practices           []string    `json:"practices"`
}

func mapSettings(s *model.Settings) *settingsResponse {
	practices := s.Practices
	if practices == nil {
		practices = []string{}
	}

	return &settingsResponse{
		DefaultVisitPrice:   s.DefaultVisitPrice,
		DefaultRetreatPrice: s.DefaultRetreatPrice,
		Practices:           practices,
	}
}

// eventResponse is the flat wire form of a calendar event. Visit-only and retreat-only
// fields are omitted for the other kind.
type eventResponse struct {
	Kind             model.EventKind    `json:"type"`
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	Date             *civil.Date        `json:"date,omitempty"`
	ClientID         int64              `json:"client_id,omitempty"`
	ClientName       string             `json:"client_name,omitempty"`
	Price            *model.Money       `json:"price,omitempty"`
	PaymentType      *model.PaymentType `json:"payment_type,omitempty"`
	Practices        []string           `json:"practices,omitempty"`
	StartDate        *civil.Date        `json:"start_date,omitempty"`
	EndDate          *civil.Date        `json:"end_date,omitempty"`
	ParticipantCount *int               `json:"participant_count,omitempty"`
	TotalRevenue     *model.Money       `json:"total_revenue,omitempty"`
	PaymentStatus    *payment.Status    `json:"payment_status,omitempty"`
	PaymentLabel     string             `json:"payment_label,omitempty"`
	PaymentColor     string             `json:"payment_color,omitempty"`
}

func mapEvent(e model.CalendarEvent, status *payment.Status) *eventResponse {
	res := &eventResponse{Kind: e.Kind(), ID: e.EventID()}

	switch ev := e.(type) {
	case *model.VisitEvent:
		res.Title = ev.Title
		res.Date = &ev.Date
		res.ClientID = ev.ClientID
		res.ClientName = ev.ClientName
		res.Price = &ev.Price
		res.PaymentType = ev.PaymentType
		res.Practices = ev.Practices
	case *model.RetreatEvent:
		res.Title = ev.Title
		res.StartDate = &ev.StartDate
		res.EndDate = &ev.EndDate
		res.ParticipantCount = &ev.ParticipantCount
		res.TotalRevenue = &ev.TotalRevenue
	}

	if status != nil {
		res.PaymentStatus = status
		res.PaymentLabel = status.Label()
		res.PaymentColor = status.BadgeColor()
	}

	return res
}

type dayResponse struct {
	Date    civil.Date       `json:"date"`
	InMonth bool             `json:"in_month"`
	IsToday bool             `json:"is_today"`
	Events  []*eventResponse `json:"events"`
}

type viewResponse struct {
	Anchor    civil.Date       `json:"anchor"`
	View      string           `json:"view"`
	Filter    string           `json:"filter"`
	Today     civil.Date       `json:"today"`
	RangeFrom civil.Date       `json:"range_start"`
	RangeTo   civil.Date       `json:"range_end"`
	Weeks     [][]*dayResponse `json:"weeks"`
}

func mapView(v *business_calendar.View) *viewResponse {
	return &viewResponse{
		Anchor:    v.State.Anchor,
		View:      string(v.State.Granularity),
		Filter:    string(v.State.Filter),
		Today:     v.Today,
		RangeFrom: v.Range.Start,
		RangeTo:   v.Range.End,
		Weeks: mapSlice(v.Weeks, func(week []*business_calendar.Day) []*dayResponse {
			return mapSlice(week, func(d *business_calendar.Day) *dayResponse {
				return &dayResponse{
					Date:    d.Date,
					InMonth: d.InMonth,
					IsToday: d.Date == v.Today,
					Events: mapSlice(d.Events, func(e *business_calendar.Event) *eventResponse {
						return mapEvent(e.CalendarEvent, e.Status)
					}),
				}
			})
		}),
	}
}

type topicCountResponse struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func mapTopics(topics []stats.TopicCount) []topicCountResponse {
	return mapSlice(topics, func(t stats.TopicCount) topicCountResponse {
		return topicCountResponse{Topic: t.Topic, Count: t.Count}
	})
}

type monthCountResponse struct {
	Month  string `json:"month"`
	Label  string `json:"label"`
	Visits int    `json:"visits"`
}

func mapMonths(months []stats.MonthCount) []monthCountResponse {
	return mapSlice(months, func(m stats.MonthCount) monthCountResponse {
		return monthCountResponse{
			Month:  m.Month.String()[:len("2006-01")],
			Label:  m.Label,
			Visits: m.Visits,
		}
	})
}

type moneyResponse struct {
	Revenue  model.Money `json:"revenue"`
	Tips     model.Money `json:"tips"`
	Visits   int         `json:"visits"`
	AvgCheck model.Money `json:"avg_check"`
}

func mapMoney(m stats.Money) moneyResponse {
	return moneyResponse{Revenue: m.Revenue, Tips: m.Tips, Visits: m.Visits, AvgCheck: m.AvgCheck}
}

type retreatMoneyResponse struct {
	Revenue  model.Money `json:"revenue"`
	Expenses model.Money `json:"expenses"`
	Profit   model.Money `json:"profit"`
	Retreats int         `json:"retreats"`
}

func mapRetreatMoney(m stats.RetreatMoney) retreatMoneyResponse {
	return retreatMoneyResponse{Revenue: m.Revenue, Expenses: m.Expenses, Profit: m.Profit, Retreats: m.Retreats}
}

type practiceCountResponse struct {
	Practice string `json:"practice"`
	Count    int    `json:"count"`
}

type statusCountResponse struct {
	paymentBadge
	Count  int         `json:"count"`
	Amount model.Money `json:"amount"`
}

type overviewResponse struct {
	TotalClients    int64                   `json:"total_clients"`
	VisitsYTD       int                     `json:"visits_ytd"`
	VisitsLast30    int                     `json:"visits_last_30_days"`
	TopTopics       []topicCountResponse    `json:"top_topics"`
	RecentVisits    []*visitResponse        `json:"recent_visits"`
	VisitsOverTime  []monthCountResponse    `json:"visits_over_time"`
	FinancialYTD    moneyResponse           `json:"financial_ytd"`
	FinancialLast30 moneyResponse           `json:"financial_last_30_days"`
	RetreatsYTD     retreatMoneyResponse    `json:"retreats_ytd"`
	PracticesYTD    []practiceCountResponse `json:"practices_ytd"`
	PaymentsYTD     []statusCountResponse   `json:"payment_statuses_ytd"`
}

func mapOverview(o *stats.Overview, classifier *payment.Classifier) *overviewResponse {
	return &overviewResponse{
		TotalClients: o.TotalClients,
		VisitsYTD:    o.VisitsYTD,
		VisitsLast30: o.VisitsLast30,
		TopTopics:    mapTopics(o.TopTopics),
		RecentVisits: mapSlice(o.RecentVisits, func(v *model.VisitWithClient) *visitResponse {
			return mapVisit(v, classifier)
		}),
		VisitsOverTime:  mapMonths(o.VisitsOverTime),
		FinancialYTD:    mapMoney(o.FinancialYTD),
		FinancialLast30: mapMoney(o.FinancialLast30),
		RetreatsYTD:     mapRetreatMoney(o.RetreatsYTD),
		PracticesYTD: mapSlice(o.PracticesYTD, func(p stats.PracticeCount) practiceCountResponse {
			return practiceCountResponse{Practice: p.Practice, Count: p.Count}
		}),
		PaymentsYTD: mapSlice(o.PaymentsYTD, func(s stats.StatusCount) statusCountResponse {
			return statusCountResponse{paymentBadge: badge(s.Status), Count: s.Count, Amount: s.Amount}
		}),
	}
}

type clientStatsResponse struct {
	Client        *clientResponse      `json:"client"`
	Year          int                  `json:"year"`
	TotalVisits   int                  `json:"total_visits"`
	Topics        []topicCountResponse `json:"topics"`
	VisitsByMonth []monthCountResponse `json:"visits_by_month"`
	Financial     moneyResponse        `json:"financial"`
}

func mapClientStats(s *stats.ClientStats) *clientStatsResponse {
	return &clientStatsResponse{
		Client:        mapClient(s.Client),
		Year:          s.Year,
		TotalVisits:   s.TotalVisits,
		Topics:        mapTopics(s.Topics),
		VisitsByMonth: mapMonths(s.VisitsByMonth),
		Financial:     mapMoney(s.Financial),
	}
}

type clientSummaryResponse struct {
	ClientID   int64                `json:"client_id"`
	ClientName string               `json:"client_name"`
	VisitCount int                  `json:"visit_count"`
	Revenue    model.Money          `json:"revenue"`
	Tips       model.Money          `json:"tips"`
	Topics     []topicCountResponse `json:"topics"`
}

type yearlySummaryResponse struct {
	Year              int                     `json:"year"`
	ActiveClients     int                     `json:"active_clients"`
	TotalVisits       int                     `json:"total_visits"`
	TotalRevenue      model.Money             `json:"total_revenue"`
	TotalTips         model.Money             `json:"total_tips"`
	AvgCheck          model.Money             `json:"avg_check"`
	ClientSummaries   []clientSummaryResponse `json:"client_summaries"`
	TopicDistribution []topicCountResponse    `json:"topic_distribution"`
	Retreats          retreatMoneyResponse    `json:"retreats"`
}

func mapYearlySummary(s *stats.YearlySummary) *yearlySummaryResponse {
	return &yearlySummaryResponse{
		Year:          s.Year,
		ActiveClients: s.ActiveClients,
		TotalVisits:   s.TotalVisits,
		TotalRevenue:  s.TotalRevenue,
		TotalTips:     s.TotalTips,
		AvgCheck:      s.AvgCheck,
		ClientSummaries: mapSlice(s.ClientSummaries, func(c stats.ClientSummary) clientSummaryResponse {
			return clientSummaryResponse{
				ClientID:   c.ClientID,
				ClientName: c.ClientName,
				VisitCount: c.VisitCount,
				Revenue:    c.Revenue,
				Tips:       c.Tips,
				Topics:     mapTopics(c.Topics),
			}
		}),
		TopicDistribution: mapTopics(s.TopicDistribution),
		Retreats:          mapRetreatMoney(s.Retreats),
	}
}

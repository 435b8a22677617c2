package stats

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
)

const (
	topTopicsLimit    = 5
	recentVisitsLimit = 10
	overviewMonths    = 12
	last30Days        = 30
)

type Service struct {
	db                 database.PGX
	clientsRepository  clientsRepository
	visitsRepository   visitsRepository
	retreatsRepository retreatsRepository
	classifiers        classifierSource
}

type clientsRepository interface {
	GetClient(ctx context.Context, q database.Queryable, id int64) (*model.Client, error)
	CountClients(ctx context.Context, q database.Queryable) (int64, error)
}

type visitsRepository interface {
	ListVisits(ctx context.Context, q database.Queryable, filter model.VisitsFilter) ([]*model.VisitWithClient, error)
}

type retreatsRepository interface {
	ListRetreats(ctx context.Context, q database.Queryable, filter model.RetreatsFilter) ([]*model.Retreat, error)
}

type classifierSource interface {
	Classifier(ctx context.Context) *payment.Classifier
}

func NewService(
	db database.PGX,
	clients clientsRepository,
	visits visitsRepository,
	retreats retreatsRepository,
	classifiers classifierSource,
) *Service {
	return &Service{
		db:                 db,
		clientsRepository:  clients,
		visitsRepository:   visits,
		retreatsRepository: retreats,
		classifiers:        classifiers,
	}
}

func (s *Service) Overview(ctx context.Context, today civil.Date) (*Overview, error) {
	totalClients, err := s.clientsRepository.CountClients(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("clientsRepository.CountClients: %w", err)
	}

	all, err := s.visitsRepository.ListVisits(ctx, s.db, model.VisitsFilter{})
	if err != nil {
		return nil, fmt.Errorf("visitsRepository.ListVisits: %w", err)
	}

	yearStart, yearEnd := yearBounds(today.Year)
	retreats, err := s.retreatsRepository.ListRetreats(ctx, s.db, model.RetreatsFilter{From: &yearStart, To: &yearEnd})
	if err != nil {
		return nil, fmt.Errorf("retreatsRepository.ListRetreats: %w", err)
	}

	ytd := inRange(all, yearStart, today)
	last30 := inRange(all, today.AddDays(-last30Days), today)

	topTopics := countTopics(all)
	if len(topTopics) > topTopicsLimit {
		topTopics = topTopics[:topTopicsLimit]
	}

	recent := all
	if len(recent) > recentVisitsLimit {
		recent = recent[:recentVisitsLimit]
	}

	return &Overview{
		TotalClients:    totalClients,
		VisitsYTD:       len(ytd),
		VisitsLast30:    len(last30),
		TopTopics:       topTopics,
		RecentVisits:    recent,
		VisitsOverTime:  countMonths(all, today, overviewMonths),
		FinancialYTD:    summarize(ytd),
		FinancialLast30: summarize(last30),
		RetreatsYTD:     summarizeRetreats(retreats),
		PracticesYTD:    countPractices(ytd),
		PaymentsYTD:     countStatuses(ytd, s.classifiers.Classifier(ctx)),
	}, nil
}

func (s *Service) ClientStats(ctx context.Context, clientID int64, year int) (*ClientStats, error) {
	client, err := s.clientsRepository.GetClient(ctx, s.db, clientID)
	if err != nil {
		return nil, fmt.Errorf("clientsRepository.GetClient: %w", err)
	}

	from, to := yearBounds(year)
	visits, err := s.visitsRepository.ListVisits(ctx, s.db, model.VisitsFilter{ClientID: clientID, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("visitsRepository.ListVisits: %w", err)
	}

	return &ClientStats{
		Client:        client,
		Year:          year,
		TotalVisits:   len(visits),
		Topics:        countTopics(visits),
		VisitsByMonth: yearMonths(visits, year),
		Financial:     summarize(visits),
	}, nil
}

func (s *Service) YearlySummary(ctx context.Context, year int) (*YearlySummary, error) {
	from, to := yearBounds(year)
	visits, err := s.visitsRepository.ListVisits(ctx, s.db, model.VisitsFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("visitsRepository.ListVisits: %w", err)
	}

	retreats, err := s.retreatsRepository.ListRetreats(ctx, s.db, model.RetreatsFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("retreatsRepository.ListRetreats: %w", err)
	}

	summaries := clientSummaries(visits)
	total := summarize(visits)

	return &YearlySummary{
		Year:              year,
		ActiveClients:     len(summaries),
		TotalVisits:       total.Visits,
		TotalRevenue:      total.Revenue,
		TotalTips:         total.Tips,
		AvgCheck:          total.AvgCheck,
		ClientSummaries:   summaries,
		TopicDistribution: countTopics(visits),
		Retreats:          summarizeRetreats(retreats),
	}, nil
}

// TopicStats counts topics of visits between the optional bounds.
func (s *Service) TopicStats(ctx context.Context, from, to *civil.Date) (*TopicStats, error) {
	visits, err := s.visitsRepository.ListVisits(ctx, s.db, model.VisitsFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("visitsRepository.ListVisits: %w", err)
	}

	topics := countTopics(visits)
	total := 0
	for _, t := range topics {
		total += t.Count
	}

	return &TopicStats{Topics: topics, TotalVisits: total}, nil
}

func yearBounds(year int) (civil.Date, civil.Date) {
	return civil.Date{Year: year, Month: time.January, Day: 1}, civil.Date{Year: year, Month: time.December, Day: 31}
}

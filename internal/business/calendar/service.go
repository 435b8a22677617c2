package calendar

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	cal "github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"go.uber.org/zap"
)

type Service struct {
	db                 database.PGX
	visitsRepository   visitsRepository
	retreatsRepository retreatsRepository
	classifiers        classifierSource
	observer           cal.Observer
	today              func() civil.Date
	logger             *zap.SugaredLogger
}

type visitsRepository interface {
	ListVisitEvents(ctx context.Context, q database.Queryable, from, to civil.Date) ([]*model.VisitEvent, error)
}

type retreatsRepository interface {
	ListRetreatEvents(ctx context.Context, q database.Queryable, from, to civil.Date) ([]*model.RetreatEvent, error)
}

type classifierSource interface {
	Classifier(ctx context.Context) *payment.Classifier
}

func NewService(
	db database.PGX,
	visits visitsRepository,
	retreats retreatsRepository,
	classifiers classifierSource,
	observer cal.Observer,
	today func() civil.Date,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		db:                 db,
		visitsRepository:   visits,
		retreatsRepository: retreats,
		classifiers:        classifiers,
		observer:           observer,
		today:              today,
		logger:             logger,
	}
}

// GetEvents returns visits in date order followed by retreats overlapping [start, end]
// by start date.
func (s *Service) GetEvents(ctx context.Context, start, end civil.Date, filter cal.EventFilter) ([]model.CalendarEvent, error) {
	if err := cal.Validate(start); err != nil {
		return nil, err
	}
	if err := cal.Validate(end); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v before start %v", cal.ErrInvalidDate, end, start)
	}

	var res []model.CalendarEvent

	if filter.Includes(model.EventKindVisit) {
		visits, err := s.visitsRepository.ListVisitEvents(ctx, s.db, start, end)
		if err != nil {
			return nil, fmt.Errorf("visitsRepository.ListVisitEvents: %w", err)
		}
		for _, v := range visits {
			res = append(res, v)
		}
	}

	if filter.Includes(model.EventKindRetreat) {
		retreats, err := s.retreatsRepository.ListRetreatEvents(ctx, s.db, start, end)
		if err != nil {
			return nil, fmt.Errorf("retreatsRepository.ListRetreatEvents: %w", err)
		}
		for _, r := range retreats {
			res = append(res, r)
		}
	}

	return res, nil
}

// FetchEvents lets a calendar.Session load its range from the database.
func (s *Service) FetchEvents(ctx context.Context, r cal.FetchRange, filter cal.EventFilter) ([]model.CalendarEvent, error) {
	return s.GetEvents(ctx, r.Start, r.End, filter)
}

func (s *Service) Today() civil.Date {
	return s.today()
}

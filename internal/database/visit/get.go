package visit

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

func (*Repository) GetVisit(ctx context.Context, q database.Queryable, id int64) (*model.VisitWithClient, error) {
	qb := baseQuery.
		Where(sq.Eq{"v.id": id})

	var dtos []*visitDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return nil, model.ErrNoRecord
	}

	return mapToVisit(dtos[0]), nil
}

// ListVisits возвращает визиты от новых к старым.
func (*Repository) ListVisits(ctx context.Context, q database.Queryable, filter model.VisitsFilter) ([]*model.VisitWithClient, error) {
	qb := baseQuery.
		Where(filterPredicate(filter)).
		OrderBy("v.visit_date desc", "v.id desc")

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	var dtos []*visitDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.VisitWithClient, len(dtos))
	for i, d := range dtos {
		res[i] = mapToVisit(d)
	}

	return res, nil
}

func (*Repository) CountVisits(ctx context.Context, q database.Queryable, filter model.VisitsFilter) (int64, error) {
	qb := database.PSQL.
		Select("count(*)").
		From(database.VisitsTable + " v").
		Where(filterPredicate(filter))

	var count int64
	if err := q.Get(ctx, &count, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return count, nil
}

func (*Repository) ListTopics(ctx context.Context, q database.Queryable) ([]string, error) {
	qb := database.PSQL.
		Select("distinct topic").
		From(database.VisitsTable).
		Where(sq.NotEq{"topic": ""}).
		OrderBy("topic")

	var topics []string
	if err := q.Select(ctx, &topics, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return topics, nil
}

// ListVisitEvents возвращает визиты в [from, to] по возрастанию даты.
func (*Repository) ListVisitEvents(ctx context.Context, q database.Queryable, from, to civil.Date) ([]*model.VisitEvent, error) {
	qb := baseQuery.
		Where(sq.GtOrEq{"v.visit_date": from.In(time.UTC)}).
		Where(sq.LtOrEq{"v.visit_date": to.In(time.UTC)}).
		OrderBy("v.visit_date", "v.id")

	var dtos []*visitDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.VisitEvent, len(dtos))
	for i, d := range dtos {
		res[i] = mapToVisitEvent(d)
	}

	return res, nil
}

func filterPredicate(filter model.VisitsFilter) sq.And {
	pred := sq.And{sq.Expr("true")}

	if filter.ClientID != 0 {
		pred = append(pred, sq.Eq{"v.client_id": filter.ClientID})
	}
	if filter.From != nil {
		pred = append(pred, sq.GtOrEq{"v.visit_date": filter.From.In(time.UTC)})
	}
	if filter.To != nil {
		pred = append(pred, sq.LtOrEq{"v.visit_date": filter.To.In(time.UTC)})
	}
	if filter.Topic != "" {
		pred = append(pred, sq.ILike{"v.topic": fmt.Sprintf("%%%v%%", filter.Topic)})
	}

	return pred
}

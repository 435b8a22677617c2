package retreat

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// GetRetreat возвращает ретрит вместе с участниками и расходами.
func (r *Repository) GetRetreat(ctx context.Context, q database.Queryable, id int64) (*model.Retreat, error) {
	retreats, err := r.getRetreats(ctx, q, sq.Eq{"id": id})
	if err != nil {
		return nil, err
	}

	if len(retreats) == 0 {
		return nil, model.ErrNoRecord
	}

	return retreats[0], nil
}

// ListRetreats возвращает ретриты, пересекающиеся с периодом фильтра, от новых к старым.
func (r *Repository) ListRetreats(ctx context.Context, q database.Queryable, filter model.RetreatsFilter) ([]*model.Retreat, error) {
	pred := sq.And{sq.Expr("true")}
	if filter.To != nil {
		pred = append(pred, sq.LtOrEq{"start_date": filter.To.In(time.UTC)})
	}
	if filter.From != nil {
		pred = append(pred, sq.GtOrEq{"end_date": filter.From.In(time.UTC)})
	}

	return r.getRetreats(ctx, q, pred)
}

// ListRetreatEvents возвращает ретриты, пересекающиеся с [from, to], с числом участников и выручкой.
func (*Repository) ListRetreatEvents(ctx context.Context, q database.Queryable, from, to civil.Date) ([]*model.RetreatEvent, error) {
	qb := database.PSQL.
		Select(
			"r.id",
			"r.name",
			"r.start_date",
			"r.end_date",
			"count(p.client_id) participant_count",
			"coalesce(sum(p.payment), 0)::bigint total_revenue",
		).
		From(database.RetreatsTable + " r").
		LeftJoin(database.ParticipantsTable + " p on p.retreat_id = r.id").
		Where(sq.LtOrEq{"r.start_date": to.In(time.UTC)}).
		Where(sq.GtOrEq{"r.end_date": from.In(time.UTC)}).
		GroupBy("r.id").
		OrderBy("r.start_date", "r.id")

	var dtos []*retreatEventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.RetreatEvent, len(dtos))
	for i, d := range dtos {
		res[i] = mapToRetreatEvent(d)
	}

	return res, nil
}

func (*Repository) getRetreats(ctx context.Context, q database.Queryable, predicate interface{}) ([]*model.Retreat, error) {
	qb := baseQuery.
		Where(predicate).
		OrderBy("start_date desc", "id desc")

	var dtos []*retreatDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return []*model.Retreat{}, nil
	}

	res := make([]*model.Retreat, len(dtos))
	byID := make(map[int64]*model.Retreat, len(dtos))
	ids := make([]int64, len(dtos))
	for i, d := range dtos {
		res[i] = mapToRetreat(d)
		byID[d.ID] = res[i]
		ids[i] = d.ID
	}

	var participants []*participantDTO
	if err := q.Select(ctx, &participants, participantsQuery.Where(sq.Eq{"p.retreat_id": ids})); err != nil {
		return nil, fmt.Errorf("SQL request participants: %w", err)
	}
	for _, p := range participants {
		if r, ok := byID[p.RetreatID]; ok {
			r.Participants = append(r.Participants, mapToParticipant(p))
		}
	}

	var expenses []*expenseDTO
	if err := q.Select(ctx, &expenses, expensesQuery.Where(sq.Eq{"retreat_id": ids})); err != nil {
		return nil, fmt.Errorf("SQL request expenses: %w", err)
	}
	for _, e := range expenses {
		if r, ok := byID[e.RetreatID]; ok {
			r.Expenses = append(r.Expenses, mapToExpense(e))
		}
	}

	return res, nil
}

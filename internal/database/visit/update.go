package visit

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// UpdateVisit обновляет заданные поля. Пустой PaymentType сбрасывает тип оплаты.
func (*Repository) UpdateVisit(ctx context.Context, q database.Queryable, id int64, update *model.VisitUpdate) error {
	set := map[string]interface{}{
		"updated_at": sq.Expr("now()"),
	}
	if update.Date != nil {
		set["visit_date"] = update.Date.In(time.UTC)
	}
	if update.Topic != nil {
		set["topic"] = *update.Topic
	}
	if update.Practices != nil {
		set["practices"] = model.UniquePractices(update.Practices)
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}
	if update.Price != nil {
		set["price"] = int64(*update.Price)
	}
	if update.Tips != nil {
		set["tips"] = int64(*update.Tips)
	}
	if update.PaymentType != nil {
		set["payment_type"] = database.PaymentTypeValue(update.PaymentType)
	}

	qb := database.PSQL.
		Update(database.VisitsTable).
		SetMap(set).
		Where(sq.Eq{"id": id})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

func (*Repository) DeleteVisit(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.VisitsTable).
		Where(sq.Eq{"id": id})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

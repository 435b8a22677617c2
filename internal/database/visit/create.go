package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

func (*Repository) CreateVisit(ctx context.Context, q database.Queryable, visit *model.VisitCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.VisitsTable).
		Columns(
			"client_id",
			"visit_date",
			"topic",
			"practices",
			"notes",
			"price",
			"tips",
			"payment_type",
		).
		Values(
			visit.ClientID,
			visit.Date.In(time.UTC),
			visit.Topic,
			model.UniquePractices(visit.Practices),
			visit.Notes,
			int64(visit.Price),
			int64(visit.Tips),
			database.PaymentTypeValue(visit.PaymentType),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

package retreat

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

func (*Repository) UpdateRetreat(ctx context.Context, q database.Queryable, id int64, update *model.RetreatUpdate) error {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.StartDate != nil {
		set["start_date"] = update.StartDate.In(time.UTC)
	}
	if update.EndDate != nil {
		set["end_date"] = update.EndDate.In(time.UTC)
	}
	if len(set) == 0 {
		return nil
	}

	qb := database.PSQL.
		Update(database.RetreatsTable).
		SetMap(set).
		Where(sq.Eq{"id": id})

	return execAffecting(ctx, q, qb)
}

func (*Repository) UpdateParticipant(ctx context.Context, q database.Queryable, retreatID, clientID int64, update *model.ParticipantUpdate) error {
	set := map[string]interface{}{}
	if update.Payment != nil {
		set["payment"] = int64(*update.Payment)
	}
	if update.PaymentState != nil {
		set["payment_state"] = string(*update.PaymentState)
	}
	if update.PaymentType != nil {
		set["payment_type"] = database.PaymentTypeValue(update.PaymentType)
	}
	if len(set) == 0 {
		return nil
	}

	qb := database.PSQL.
		Update(database.ParticipantsTable).
		SetMap(set).
		Where(sq.Eq{"retreat_id": retreatID, "client_id": clientID})

	return execAffecting(ctx, q, qb)
}

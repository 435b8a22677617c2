package retreat

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// DeleteRetreat удаляет ретрит, участники и расходы удаляются каскадом.
func (*Repository) DeleteRetreat(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.RetreatsTable).
		Where(sq.Eq{"id": id})

	return execAffecting(ctx, q, qb)
}

func (*Repository) RemoveParticipant(ctx context.Context, q database.Queryable, retreatID, clientID int64) error {
	qb := database.PSQL.
		Delete(database.ParticipantsTable).
		Where(sq.Eq{"retreat_id": retreatID, "client_id": clientID})

	return execAffecting(ctx, q, qb)
}

func (*Repository) RemoveExpense(ctx context.Context, q database.Queryable, retreatID, expenseID int64) error {
	qb := database.PSQL.
		Delete(database.ExpensesTable).
		Where(sq.Eq{"id": expenseID, "retreat_id": retreatID})

	return execAffecting(ctx, q, qb)
}

func execAffecting(ctx context.Context, q database.Queryable, qb sq.Sqlizer) error {
	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

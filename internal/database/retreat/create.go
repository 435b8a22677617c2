package retreat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/jackc/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func (*Repository) CreateRetreat(ctx context.Context, q database.Queryable, retreat *model.RetreatCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.RetreatsTable).
		Columns("name", "start_date", "end_date").
		Values(
			retreat.Name,
			retreat.StartDate.In(time.UTC),
			retreat.EndDate.In(time.UTC),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) AddParticipant(ctx context.Context, q database.Queryable, p *model.Participant) error {
	qb := database.PSQL.
		Insert(database.ParticipantsTable).
		Columns("retreat_id", "client_id", "payment", "payment_state", "payment_type").
		Values(
			p.RetreatID,
			p.ClientID,
			int64(p.Payment),
			string(p.PaymentState),
			database.PaymentTypeValue(p.PaymentType),
		)

	if _, err := q.Exec(ctx, qb); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return model.ErrAlreadyExists
			case foreignKeyViolation:
				return model.ErrNoRecord
			}
		}
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) AddExpense(ctx context.Context, q database.Queryable, e *model.Expense) (int64, error) {
	qb := database.PSQL.
		Insert(database.ExpensesTable).
		Columns("retreat_id", "name", "amount").
		Values(e.RetreatID, e.Name, int64(e.Amount)).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

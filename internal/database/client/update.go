package client

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

func (*Repository) UpdateClient(ctx context.Context, q database.Queryable, id int64, update *model.ClientUpdate) error {
	set := map[string]interface{}{
		"updated_at": sq.Expr("now()"),
	}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.MiddleName != nil {
		set["middle_name"] = *update.MiddleName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.DOB != nil {
		set["dob"] = update.DOB.In(time.UTC)
	}

	qb := database.PSQL.
		Update(database.ClientsTable).
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

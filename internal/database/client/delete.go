package client

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// DeleteClient удаляет клиента, визиты удаляются каскадом.
func (*Repository) DeleteClient(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.ClientsTable).
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

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

func (*Repository) CreateClient(ctx context.Context, q database.Queryable, client *model.ClientCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.ClientsTable).
		Columns("first_name", "middle_name", "last_name", "dob").
		Values(
			client.FirstName,
			client.MiddleName,
			client.LastName,
			client.DOB.In(time.UTC),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

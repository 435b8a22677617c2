package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/jackc/pgconn"
)

const uniqueViolation = "23505"

func (*Repository) CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.UsersTable).
		Columns("email", "password_hash").
		Values(
			user.Email,
			user.PasswordHash,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

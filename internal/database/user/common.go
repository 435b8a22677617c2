package user

import (
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"email",
		"password_hash",
		"created_at",
	).
	From(database.UsersTable)

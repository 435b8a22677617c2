package client

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
		"first_name",
		"middle_name",
		"last_name",
		"dob",
		"created_at",
		"updated_at",
	).
	From(database.ClientsTable)

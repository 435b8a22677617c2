package retreat

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
		"name",
		"start_date",
		"end_date",
		"created_at",
	).
	From(database.RetreatsTable)

var participantsQuery = database.PSQL.
	Select(
		"p.retreat_id",
		"p.client_id",
		"p.payment",
		"p.payment_state",
		"p.payment_type",
		"c.first_name",
		"c.middle_name",
		"c.last_name",
	).
	From(database.ParticipantsTable + " p").
	Join(database.ClientsTable + " c on c.id = p.client_id").
	OrderBy("c.last_name", "c.first_name", "p.client_id")

var expensesQuery = database.PSQL.
	Select(
		"id",
		"retreat_id",
		"name",
		"amount",
	).
	From(database.ExpensesTable).
	OrderBy("id")

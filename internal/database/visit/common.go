package visit

import (
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"v.id",
		"v.client_id",
		"v.visit_date",
		"v.topic",
		"v.practices",
		"v.notes",
		"v.price",
		"v.tips",
		"v.payment_type",
		"v.created_at",
		"v.updated_at",
		"c.first_name",
		"c.middle_name",
		"c.last_name",
	).
	From(database.VisitsTable + " v").
	Join(database.ClientsTable + " c on c.id = v.client_id")

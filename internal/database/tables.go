package database

import sq "github.com/Masterminds/squirrel"

// PSQL строитель запросов с плейсхолдерами postgres.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	UsersTable        = "users"
	ClientsTable      = "clients"
	VisitsTable       = "visits"
	RetreatsTable     = "retreats"
	ParticipantsTable = "retreat_participants"
	ExpensesTable     = "retreat_expenses"
	SettingsTable     = "settings"
)

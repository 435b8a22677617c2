package client

import (
	"context"
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientColumns = []string{"id", "first_name", "middle_name", "last_name", "dob", "created_at", "updated_at"}

func TestCreateClient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dob := civil.Date{Year: 1990, Month: time.March, Day: 4}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO clients (first_name,middle_name,last_name,dob) VALUES ($1,$2,$3,$4) returning id")).
		WithArgs("Анна", "Сергеевна", "Иванова", dob.In(time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := NewRepository().CreateClient(context.Background(), database.NewPGXFromPool(mock), &model.ClientCreate{
		FirstName:  "Анна",
		MiddleName: "Сергеевна",
		LastName:   "Иванова",
		DOB:        dob,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := database.NewPGXFromPool(mock)
	repo := NewRepository()
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(clientColumns).
			AddRow(int64(3), "Анна", "", "Иванова", time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(clientColumns))

	c, err := repo.GetClient(context.Background(), db, 3)
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова", c.FullName())
	assert.Equal(t, civil.Date{Year: 1990, Month: time.March, Day: 4}, c.DOB)

	_, err = repo.GetClient(context.Background(), db, 4)
	assert.ErrorIs(t, err, model.ErrNoRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	dob := time.Date(1985, time.July, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (first_name ILIKE $1 OR middle_name ILIKE $2 OR last_name ILIKE $3) ORDER BY first_name desc, id LIMIT 10 OFFSET 10")).
		WithArgs("%Ив%", "%Ив%", "%Ив%").
		WillReturnRows(pgxmock.NewRows(clientColumns).
			AddRow(int64(5), "Иван", "", "Петров", dob, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM clients WHERE (first_name ILIKE $1")).
		WithArgs("%Ив%", "%Ив%", "%Ив%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))

	clients, total, err := NewRepository().ListClients(context.Background(), database.NewPGXFromPool(mock), model.ClientsFilter{
		Search:   " Ив ",
		SortBy:   model.ClientSortFirstName,
		SortDesc: true,
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Иван", clients[0].FirstName)
	assert.Equal(t, int64(11), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClientsDefaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE true ORDER BY last_name asc, id LIMIT 20 OFFSET 0")).
		WillReturnRows(pgxmock.NewRows(clientColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM clients WHERE true")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	clients, total, err := NewRepository().ListClients(context.Background(), database.NewPGXFromPool(mock), model.ClientsFilter{SortBy: "dob; drop table clients"})
	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = NewRepository().DeleteClient(context.Background(), database.NewPGXFromPool(mock), 9)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestUpdateClient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	name := "Мария"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET first_name = $1, updated_at = now() WHERE id = $2")).
		WithArgs(name, int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = NewRepository().UpdateClient(context.Background(), database.NewPGXFromPool(mock), 2, &model.ClientUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package visit

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

var visitColumns = []string{
	"id", "client_id", "visit_date", "topic", "practices", "notes", "price", "tips",
	"payment_type", "created_at", "updated_at", "first_name", "middle_name", "last_name",
}

func strPtr(s string) *string {
	return &s
}

func TestCreateVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	subscription := model.PaymentTypeSubscription
	date := civil.Date{Year: 2024, Month: time.June, Day: 10}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO visits (client_id,visit_date,topic,practices,notes,price,tips,payment_type) VALUES ($1,$2,$3,$4,$5,$6,$7,$8) returning id")).
		WithArgs(int64(1), date.In(time.UTC), "Спина", []string{"ТСЯ", "Лепило"}, "", int64(0), int64(0), strPtr("subscription")).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	id, err := NewRepository().CreateVisit(context.Background(), database.NewPGXFromPool(mock), &model.VisitCreate{
		ClientID:    1,
		Date:        date,
		Topic:       "Спина",
		Practices:   []string{"ТСЯ", "Лепило", "ТСЯ"},
		PaymentType: &subscription,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVisitEvents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := civil.Date{Year: 2024, Month: time.May, Day: 25}
	to := civil.Date{Year: 2024, Month: time.July, Day: 7}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	charity := "charity"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE v.visit_date >= $1 AND v.visit_date <= $2 ORDER BY v.visit_date, v.id")).
		WithArgs(from.In(time.UTC), to.In(time.UTC)).
		WillReturnRows(pgxmock.NewRows(visitColumns).
			AddRow(int64(1), int64(3), time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), "Шея", []string{"ТСЯ"}, "", int64(0), int64(0), nil, now, now, "Анна", "Сергеевна", "Иванова").
			AddRow(int64(2), int64(4), time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC), "", []string{}, "", int64(0), int64(0), &charity, now, now, "Иван", "", "Петров"))

	events, err := NewRepository().ListVisitEvents(context.Background(), database.NewPGXFromPool(mock), from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, civil.Date{Year: 2024, Month: time.June, Day: 10}, events[0].Date)
	assert.Equal(t, "Анна Сергеевна Иванова", events[0].ClientName)
	assert.Nil(t, events[0].PaymentType)
	require.NotNil(t, events[1].PaymentType)
	assert.Equal(t, model.PaymentTypeCharity, *events[1].PaymentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVisitsFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := civil.Date{Year: 2024, Month: time.January, Day: 1}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (true AND v.client_id = $1 AND v.visit_date >= $2 AND v.topic ILIKE $3) ORDER BY v.visit_date desc, v.id desc LIMIT 5")).
		WithArgs(int64(3), from.In(time.UTC), "%спин%").
		WillReturnRows(pgxmock.NewRows(visitColumns))

	visits, err := NewRepository().ListVisits(context.Background(), database.NewPGXFromPool(mock), model.VisitsFilter{
		ClientID: 3,
		From:     &from,
		Topic:    "спин",
		Limit:    5,
	})
	require.NoError(t, err)
	assert.Empty(t, visits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVisitClearsPaymentType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	empty := model.PaymentType("")
	price := model.Money(7000)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE visits SET payment_type = $1, price = $2, updated_at = now() WHERE id = $3")).
		WithArgs((*string)(nil), int64(7000), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = NewRepository().UpdateVisit(context.Background(), database.NewPGXFromPool(mock), 1, &model.VisitUpdate{
		Price:       &price,
		PaymentType: &empty,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

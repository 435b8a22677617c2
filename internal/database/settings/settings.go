package settings

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// settingsID единственная строка таблицы настроек.
const settingsID = 1

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

type settingsDTO struct {
	DefaultVisitPrice   int64
	DefaultRetreatPrice int64
	Practices           []string
}

func mapToSettings(dto *settingsDTO) *model.Settings {
	return &model.Settings{
		DefaultVisitPrice:   model.Money(dto.DefaultVisitPrice),
		DefaultRetreatPrice: model.Money(dto.DefaultRetreatPrice),
		Practices:           model.UniquePractices(dto.Practices),
	}
}

func (*Repository) GetSettings(ctx context.Context, q database.Queryable) (*model.Settings, error) {
	qb := database.PSQL.
		Select(
			"default_visit_price",
			"default_retreat_price",
			"practices",
		).
		From(database.SettingsTable).
		Where(sq.Eq{"id": settingsID})

	var dtos []*settingsDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return nil, model.ErrNoRecord
	}

	return mapToSettings(dtos[0]), nil
}

func (*Repository) UpdateSettings(ctx context.Context, q database.Queryable, s *model.Settings) error {
	qb := database.PSQL.
		Insert(database.SettingsTable).
		Columns("id", "default_visit_price", "default_retreat_price", "practices").
		Values(
			settingsID,
			int64(s.DefaultVisitPrice),
			int64(s.DefaultRetreatPrice),
			model.UniquePractices(s.Practices),
		).
		Suffix("on conflict (id) do update set " +
			"default_visit_price = excluded.default_visit_price, " +
			"default_retreat_price = excluded.default_retreat_price, " +
			"practices = excluded.practices")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

package client

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

const defaultPageSize = 20

func (*Repository) GetClient(ctx context.Context, q database.Queryable, id int64) (*model.Client, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	var dtos []*clientDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(dtos) == 0 {
		return nil, model.ErrNoRecord
	}

	return mapToClient(dtos[0]), nil
}

func (*Repository) GetClientsByIDs(ctx context.Context, q database.Queryable, ids []int64) ([]*model.Client, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": ids}).
		OrderBy("id")

	var dtos []*clientDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapClients(dtos), nil
}

// ListClients возвращает страницу клиентов и общее число подходящих под фильтр.
func (*Repository) ListClients(ctx context.Context, q database.Queryable, filter model.ClientsFilter) ([]*model.Client, int64, error) {
	var where sq.Sqlizer = sq.Expr("true")
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := fmt.Sprintf("%%%v%%", search)
		where = sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"middle_name": pattern},
			sq.ILike{"last_name": pattern},
		}
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	order := "asc"
	if filter.SortDesc {
		order = "desc"
	}

	qb := baseQuery.
		Where(where).
		OrderBy(fmt.Sprintf("%v %v", sortColumn(filter.SortBy), order), "id").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))

	var dtos []*clientDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, 0, fmt.Errorf("SQL request: %w", err)
	}

	countQb := database.PSQL.
		Select("count(*)").
		From(database.ClientsTable).
		Where(where)

	var total int64
	if err := q.Get(ctx, &total, countQb); err != nil {
		return nil, 0, fmt.Errorf("SQL request: %w", err)
	}

	return mapClients(dtos), total, nil
}

func (*Repository) CountClients(ctx context.Context, q database.Queryable) (int64, error) {
	qb := database.PSQL.
		Select("count(*)").
		From(database.ClientsTable)

	var count int64
	if err := q.Get(ctx, &count, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return count, nil
}

func sortColumn(field model.ClientSortField) string {
	switch field {
	case model.ClientSortFirstName, model.ClientSortCreatedAt:
		return string(field)
	default:
		return string(model.ClientSortLastName)
	}
}

func mapClients(dtos []*clientDTO) []*model.Client {
	res := make([]*model.Client, len(dtos))
	for i, d := range dtos {
		res[i] = mapToClient(d)
	}

	return res
}

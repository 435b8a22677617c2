package client

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

type clientDTO struct {
	ID         int64
	FirstName  string
	MiddleName string
	LastName   string
	DOB        time.Time `db:"dob"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func mapToClient(dto *clientDTO) *model.Client {
	return &model.Client{
		ID:        dto.ID,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
		ClientCreate: model.ClientCreate{
			FirstName:  dto.FirstName,
			MiddleName: dto.MiddleName,
			LastName:   dto.LastName,
			DOB:        civil.DateOf(dto.DOB),
		},
	}
}

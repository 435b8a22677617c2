package user

import (
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

type userDTO struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID:        dto.ID,
		CreatedAt: dto.CreatedAt,
		UserCreate: model.UserCreate{
			Email:        dto.Email,
			PasswordHash: dto.PasswordHash,
		},
	}
}

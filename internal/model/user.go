package model

import "time"

type UserCreate struct {
	Email        string
	PasswordHash string
}

type User struct {
	ID        int64
	CreatedAt time.Time
	UserCreate
}

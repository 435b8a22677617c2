package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type ClientCreate struct {
	FirstName  string
	MiddleName string
	LastName   string
	DOB        civil.Date
}

type Client struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	ClientCreate
}

// FullName joins first, optional middle and last name.
func (c *ClientCreate) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.FirstName, c.MiddleName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, " ")
}

type ClientUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	DOB        *civil.Date
}

type ClientSortField string

const (
	ClientSortLastName  ClientSortField = "last_name"
	ClientSortFirstName ClientSortField = "first_name"
	ClientSortCreatedAt ClientSortField = "created_at"
)

type ClientsFilter struct {
	Search   string
	SortBy   ClientSortField
	SortDesc bool
	Page     int
	PageSize int
}

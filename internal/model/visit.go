package model

import (
	"time"

	"cloud.google.com/go/civil"
)

type VisitCreate struct {
	ClientID    int64
	Date        civil.Date
	Topic       string
	Practices   []string
	Notes       string
	Price       Money
	Tips        Money
	PaymentType *PaymentType
}

type Visit struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	VisitCreate
}

type VisitUpdate struct {
	Date        *civil.Date
	Topic       *string
	Practices   []string
	Notes       *string
	Price       *Money
	Tips        *Money
	PaymentType *PaymentType
}

type VisitsFilter struct {
	ClientID int64
	From     *civil.Date
	To       *civil.Date
	Topic    string
	Limit    int
	Offset   int
}

// VisitWithClient is a visit enriched with the client's display name.
type VisitWithClient struct {
	Visit
	ClientName string
}

// UniquePractices removes duplicates and blanks keeping the first occurrence order.
func UniquePractices(practices []string) []string {
	seen := make(map[string]struct{}, len(practices))
	res := make([]string, 0, len(practices))
	for _, p := range practices {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, p)
	}

	return res
}

package model

import (
	"time"

	"cloud.google.com/go/civil"
)

type RetreatCreate struct {
	Name      string
	StartDate civil.Date
	EndDate   civil.Date
}

type Retreat struct {
	ID           int64
	CreatedAt    time.Time
	Participants []*Participant
	Expenses     []*Expense
	RetreatCreate
}

func (r *Retreat) TotalRevenue() Money {
	var sum Money
	for _, p := range r.Participants {
		sum += p.Payment
	}

	return sum
}

func (r *Retreat) TotalExpenses() Money {
	var sum Money
	for _, e := range r.Expenses {
		sum += e.Amount
	}

	return sum
}

func (r *Retreat) NetProfit() Money {
	return r.TotalRevenue() - r.TotalExpenses()
}

// Spans reports whether d falls within the retreat, both ends inclusive.
func (r *RetreatCreate) Spans(d civil.Date) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

type RetreatUpdate struct {
	Name      *string
	StartDate *civil.Date
	EndDate   *civil.Date
}

// PaymentState is how far a participant has settled the retreat fee.
type PaymentState string

const (
	PaymentStatePaid    PaymentState = "paid"
	PaymentStatePartial PaymentState = "partial"
	PaymentStateNotPaid PaymentState = "not_paid"
)

func (s PaymentState) Valid() bool {
	switch s {
	case PaymentStatePaid, PaymentStatePartial, PaymentStateNotPaid:
		return true
	}
	return false
}

type Participant struct {
	RetreatID    int64
	ClientID     int64
	ClientName   string
	Payment      Money
	PaymentState PaymentState
	PaymentType  *PaymentType
}

type ParticipantUpdate struct {
	Payment      *Money
	PaymentState *PaymentState
	PaymentType  *PaymentType
}

type Expense struct {
	ID        int64
	RetreatID int64
	Name      string
	Amount    Money
}

// RetreatsFilter selects retreats overlapping [From, To].
type RetreatsFilter struct {
	From *civil.Date
	To   *civil.Date
}

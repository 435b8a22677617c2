package model

import "cloud.google.com/go/civil"

type EventKind string

const (
	EventKindVisit   EventKind = "visit"
	EventKindRetreat EventKind = "retreat"
)

// CalendarEvent is either a *VisitEvent or a *RetreatEvent.
type CalendarEvent interface {
	Kind() EventKind
	EventID() int64
	calendarEvent()
}

type VisitEvent struct {
	ID          int64
	Date        civil.Date
	ClientID    int64
	ClientName  string
	Title       string
	Price       Money
	PaymentType *PaymentType
	Practices   []string
}

func (*VisitEvent) Kind() EventKind { return EventKindVisit }
func (e *VisitEvent) EventID() int64 { return e.ID }
func (*VisitEvent) calendarEvent() {}

type RetreatEvent struct {
	ID               int64
	StartDate        civil.Date
	EndDate          civil.Date
	Title            string
	ParticipantCount int
	TotalRevenue     Money
}

func (*RetreatEvent) Kind() EventKind { return EventKindRetreat }
func (e *RetreatEvent) EventID() int64 { return e.ID }
func (*RetreatEvent) calendarEvent() {}

package retreat

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

type retreatDTO struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

func mapToRetreat(dto *retreatDTO) *model.Retreat {
	return &model.Retreat{
		ID:           dto.ID,
		CreatedAt:    dto.CreatedAt,
		Participants: []*model.Participant{},
		Expenses:     []*model.Expense{},
		RetreatCreate: model.RetreatCreate{
			Name:      dto.Name,
			StartDate: civil.DateOf(dto.StartDate),
			EndDate:   civil.DateOf(dto.EndDate),
		},
	}
}

type participantDTO struct {
	RetreatID    int64
	ClientID     int64
	Payment      int64
	PaymentState string
	PaymentType  *string
	FirstName    string
	MiddleName   string
	LastName     string
}

func mapToParticipant(dto *participantDTO) *model.Participant {
	name := model.ClientCreate{FirstName: dto.FirstName, MiddleName: dto.MiddleName, LastName: dto.LastName}

	return &model.Participant{
		RetreatID:    dto.RetreatID,
		ClientID:     dto.ClientID,
		ClientName:   name.FullName(),
		Payment:      model.Money(dto.Payment),
		PaymentState: model.PaymentState(dto.PaymentState),
		PaymentType:  database.MapPaymentType(dto.PaymentType),
	}
}

type expenseDTO struct {
	ID        int64
	RetreatID int64
	Name      string
	Amount    int64
}

func mapToExpense(dto *expenseDTO) *model.Expense {
	return &model.Expense{
		ID:        dto.ID,
		RetreatID: dto.RetreatID,
		Name:      dto.Name,
		Amount:    model.Money(dto.Amount),
	}
}

type retreatEventDTO struct {
	ID               int64
	Name             string
	StartDate        time.Time
	EndDate          time.Time
	ParticipantCount int64
	TotalRevenue     int64
}

func mapToRetreatEvent(dto *retreatEventDTO) *model.RetreatEvent {
	return &model.RetreatEvent{
		ID:               dto.ID,
		StartDate:        civil.DateOf(dto.StartDate),
		EndDate:          civil.DateOf(dto.EndDate),
		Title:            dto.Name,
		ParticipantCount: int(dto.ParticipantCount),
		TotalRevenue:     model.Money(dto.TotalRevenue),
	}
}

package visit

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

type visitDTO struct {
	ID          int64
	ClientID    int64
	VisitDate   time.Time
	Topic       string
	Practices   []string
	Notes       string
	Price       int64
	Tips        int64
	PaymentType *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FirstName   string
	MiddleName  string
	LastName    string
}

func (d *visitDTO) clientName() string {
	name := model.ClientCreate{FirstName: d.FirstName, MiddleName: d.MiddleName, LastName: d.LastName}
	return name.FullName()
}

func mapToVisit(dto *visitDTO) *model.VisitWithClient {
	return &model.VisitWithClient{
		Visit: model.Visit{
			ID:        dto.ID,
			CreatedAt: dto.CreatedAt,
			UpdatedAt: dto.UpdatedAt,
			VisitCreate: model.VisitCreate{
				ClientID:    dto.ClientID,
				Date:        civil.DateOf(dto.VisitDate),
				Topic:       dto.Topic,
				Practices:   model.UniquePractices(dto.Practices),
				Notes:       dto.Notes,
				Price:       model.Money(dto.Price),
				Tips:        model.Money(dto.Tips),
				PaymentType: database.MapPaymentType(dto.PaymentType),
			},
		},
		ClientName: dto.clientName(),
	}
}

func mapToVisitEvent(dto *visitDTO) *model.VisitEvent {
	name := dto.clientName()

	return &model.VisitEvent{
		ID:          dto.ID,
		Date:        civil.DateOf(dto.VisitDate),
		ClientID:    dto.ClientID,
		ClientName:  name,
		Title:       name,
		Price:       model.Money(dto.Price),
		PaymentType: database.MapPaymentType(dto.PaymentType),
		Practices:   model.UniquePractices(dto.Practices),
	}
}

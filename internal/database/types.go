package database

import "github.com/SergeyKozhin/kinesio-crm/internal/model"

// PaymentTypeValue приводит тип оплаты к значению колонки, пустой тип пишется как NULL.
func PaymentTypeValue(t *model.PaymentType) *string {
	if t == nil || *t == "" {
		return nil
	}

	s := string(*t)
	return &s
}

// MapPaymentType обратное к PaymentTypeValue.
func MapPaymentType(s *string) *model.PaymentType {
	if s == nil || *s == "" {
		return nil
	}

	t := model.PaymentType(*s)
	return &t
}

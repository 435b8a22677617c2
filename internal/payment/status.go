package payment

import (
	"strings"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// Status is the display category of a financial record. It is derived, never stored.
type Status string

const (
	StatusStandard     Status = "standard"
	StatusDiscounted   Status = "discounted"
	StatusCharity      Status = "charity"
	StatusSubscription Status = "subscription"
)

var Statuses = []Status{StatusStandard, StatusDiscounted, StatusCharity, StatusSubscription}

var labels = map[Status]string{
	StatusStandard:     "Обычный",
	StatusDiscounted:   "Скидка",
	StatusCharity:      "Благотворительность",
	StatusSubscription: "Абонемент",
}

var badgeColors = map[Status]string{
	StatusStandard:     "#15803d",
	StatusDiscounted:   "#b45309",
	StatusCharity:      "#7e22ce",
	StatusSubscription: "#1d4ed8",
}

func (s Status) Label() string {
	return labels[s]
}

func (s Status) BadgeColor() string {
	return badgeColors[s]
}

// TypeUnknown marks a tag outside the known set. With a zero price it classifies as charity.
const TypeUnknown model.PaymentType = "unknown"

// ParseType maps a wire tag to a payment type. An empty tag means no type, an
// unrecognized one yields TypeUnknown.
func ParseType(s string) *model.PaymentType {
	var t model.PaymentType
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil
	case "subscription", "абонемент":
		t = model.PaymentTypeSubscription
	case "charity", "благотворительность":
		t = model.PaymentTypeCharity
	default:
		t = TypeUnknown
	}

	return &t
}

// KnownType reports whether t is absent or one of the recognized types.
func KnownType(t *model.PaymentType) bool {
	return t == nil || *t == model.PaymentTypeSubscription || *t == model.PaymentTypeCharity
}

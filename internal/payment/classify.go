package payment

import (
	"errors"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"go.uber.org/zap"
)

var ErrNegativePrice = errors.New("negative price")

// Classify derives the payment status. Rules are checked in order, first match wins:
// zero price with subscription type, zero price, price below the reference, the rest.
// A negative price yields ErrNegativePrice together with StatusCharity.
func Classify(price model.Money, paymentType *model.PaymentType, reference model.Money) (Status, error) {
	switch {
	case price < 0:
		return StatusCharity, ErrNegativePrice
	case price == 0 && paymentType != nil && *paymentType == model.PaymentTypeSubscription:
		return StatusSubscription, nil
	case price == 0:
		return StatusCharity, nil
	case price < reference:
		return StatusDiscounted, nil
	default:
		return StatusStandard, nil
	}
}

// Classifier applies Classify with reference prices taken from settings.
type Classifier struct {
	visitPrice   model.Money
	retreatPrice model.Money
	strict       bool
	logger       *zap.SugaredLogger
}

// NewClassifier builds a classifier. Zero reference prices fall back to the built-in defaults.
// In strict mode malformed input panics instead of degrading.
func NewClassifier(settings *model.Settings, strict bool, logger *zap.SugaredLogger) *Classifier {
	c := &Classifier{
		visitPrice:   model.FallbackVisitPrice,
		retreatPrice: model.FallbackRetreatPrice,
		strict:       strict,
		logger:       logger,
	}

	if settings != nil {
		if settings.DefaultVisitPrice > 0 {
			c.visitPrice = settings.DefaultVisitPrice
		}
		if settings.DefaultRetreatPrice > 0 {
			c.retreatPrice = settings.DefaultRetreatPrice
		}
	}

	return c
}

func (c *Classifier) VisitReference() model.Money {
	return c.visitPrice
}

func (c *Classifier) RetreatReference() model.Money {
	return c.retreatPrice
}

func (c *Classifier) Visit(price model.Money, paymentType *model.PaymentType) Status {
	return c.classify(price, paymentType, c.visitPrice)
}

func (c *Classifier) Retreat(price model.Money, paymentType *model.PaymentType) Status {
	return c.classify(price, paymentType, c.retreatPrice)
}

func (c *Classifier) classify(price model.Money, paymentType *model.PaymentType, reference model.Money) Status {
	status, err := Classify(price, paymentType, reference)
	if err != nil {
		if c.strict {
			panic(err)
		}
		if c.logger != nil {
			c.logger.Warnw("malformed payment input", "price", price, "err", err)
		}
	}

	return status
}

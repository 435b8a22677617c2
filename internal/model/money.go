package model

// Money is an amount in integer minor units of the practice's single currency.
type Money int64

type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeCharity      PaymentType = "charity"
)

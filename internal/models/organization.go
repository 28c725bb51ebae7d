package models

// PaymentType is the billing mode of a client organization. Cashless
// billing incurs a 7% tax deduction before the profit split.
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentCashless PaymentType = "cashless"
)

// Organization is one client organization with its payment terms.
// Immutable for the lifetime of a scheduling session once fetched.
type Organization struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ContactRate int         `json:"contactRate"`
	PaymentType PaymentType `json:"paymentType"`
}

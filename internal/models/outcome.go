package models

// ActualOutcome is the realized result for one calendar day, merged from
// the lead-count feed and the accounting ledger. Absence of a date key
// means zero until data arrives.
type ActualOutcome struct {
	Date             string `json:"date"` // YYYY-MM-DD
	RealizedContacts int    `json:"realizedContacts"`
	RealizedRevenue  int    `json:"realizedRevenue"`
}

// LedgerShift is one shift-level record from the accounting ledger feed.
type LedgerShift struct {
	Date               string      `json:"date"`
	ContactsCount      int         `json:"contactsCount"`
	Organization       string      `json:"organization"`
	ContactRate        int         `json:"contactRate"`
	CompensationAmount int         `json:"compensationAmount"`
	PaymentType        PaymentType `json:"paymentType"`
	ExpenseAmount      int         `json:"expenseAmount"`
}

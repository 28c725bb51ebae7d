package promoapi

// Wire types for the dashboard's remote data store. Field names follow
// the store's JSON contract, not the engine's internal naming.

type organizationsResponse struct {
	Organizations []wireOrganization `json:"organizations"`
}

type wireOrganization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactRate int    `json:"contact_rate"`
	PaymentType string `json:"payment_type"`
}

type orgStatsRequest struct {
	Email string `json:"email"`
}

type orgStatsResponse struct {
	OrgStats []wireOrgStat `json:"org_stats"`
}

type wireOrgStat struct {
	OrganizationName string  `json:"organization_name"`
	AvgPerShift      float64 `json:"avg_per_shift"`
	ShiftCount       int     `json:"shift_count"`
}

type scheduleStatsRequest struct {
	Dates []string `json:"dates"`
}

type scheduleStatsResponse struct {
	Actual []wireActual `json:"actual"`
}

type wireActual struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type accountingResponse struct {
	Shifts []wireLedgerShift `json:"shifts"`
}

type wireLedgerShift struct {
	Date               string `json:"date"`
	ContactsCount      int    `json:"contacts_count"`
	Organization       string `json:"organization"`
	ContactRate        int    `json:"contact_rate"`
	CompensationAmount int    `json:"compensation_amount"`
	PaymentType        string `json:"payment_type"`
	ExpenseAmount      int    `json:"expense_amount"`
}

package models

// Promoter is one field staff member on the scheduling roster. Email is
// the identifying key for the remote stats endpoint; a promoter without
// one is skipped by the stats fetcher.
type Promoter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PromoterOrgStat is the historical performance of one promoter at one
// organization. One record per (promoter, organization) pair, replaced
// wholesale on every fetch.
type PromoterOrgStat struct {
	PromoterName        string  `json:"promoterName"`
	OrganizationName    string  `json:"organizationName"`
	AvgContactsPerShift float64 `json:"avgContactsPerShift"`
	ShiftCount          int     `json:"shiftCount"`
}

// WorkSlot is one scheduled half-day shift. The presence of an active
// slot for a (promoter, date) pair means the promoter is expected to work
// that day.
type WorkSlot struct {
	PromoterID string `json:"promoterId"`
	Date       string `json:"date"` // YYYY-MM-DD
	SlotID     string `json:"slotId"`
	Active     bool   `json:"active"`
}

// ActiveSlots indexes work slots by promoter name and date key. A
// promoter/date entry is present only when at least one slot is active.
type ActiveSlots map[string]map[string]bool

// IsWorking reports whether the promoter has an active slot on the date.
func (s ActiveSlots) IsWorking(promoterName, dateKey string) bool {
	return s[promoterName][dateKey]
}

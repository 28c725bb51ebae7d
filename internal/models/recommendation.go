package models

// Recommendation is the ranked top-3 organization pick for one promoter
// on one date. Derived data: rebuilt from stats and the catalog on every
// relevant input change, never persisted.
type Recommendation struct {
	PromoterName      string   `json:"promoterName"`
	Date              string   `json:"date"` // YYYY-MM-DD
	OrganizationNames []string `json:"organizationNames"`
}

// Top returns the highest-ranked organization name, or "" when the
// recommendation is empty.
func (r Recommendation) Top() string {
	if len(r.OrganizationNames) == 0 {
		return ""
	}
	return r.OrganizationNames[0]
}

// Selection is the organization choice the dashboard user made for one
// promoter on one date. Owned by the UI; the engine only reads the
// organization name for aggregation.
type Selection struct {
	OrganizationName string `json:"organizationName,omitempty"`
	LocationType     string `json:"locationType,omitempty"`
	LocationDetails  string `json:"locationDetails,omitempty"`
	FlyersNote       string `json:"flyersNote,omitempty"`
}

// SelectionState maps promoter name -> date key -> selection.
type SelectionState map[string]map[string]Selection

// DaySummary is the recommended-vs-selected rollup for one calendar day
// across every promoter working that day.
type DaySummary struct {
	Date                string  `json:"date"`
	RecommendedContacts int     `json:"recommendedContacts"`
	SelectedContacts    int     `json:"selectedContacts"`
	RecommendedIncome   int     `json:"recommendedIncome"`
	SelectedIncome      int     `json:"selectedIncome"`
	ContactsDeltaPct    float64 `json:"contactsDeltaPct"`
	IncomeDeltaPct      float64 `json:"incomeDeltaPct"`
}

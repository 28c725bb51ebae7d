// Package summary rolls up recommended-vs-selected contacts and revenue
// per calendar day. Pure and read-only: recomputed on demand with no
// caching.
package summary

import (
	"math"

	"promoboard-engine/internal/engine/ranker"
	"promoboard-engine/internal/engine/revenue"
	"promoboard-engine/internal/models"
)

type Aggregator struct {
	model *revenue.Model
}

func New(model *revenue.Model) *Aggregator {
	return &Aggregator{model: model}
}

// Summarize aggregates, for every promoter with an active slot on the
// day, the projected contacts and income of the recommended organization
// (the recommendation's top entry) against the organization the user
// actually selected. Percentage deltas report 0 when the recommended
// baseline is zero.
func (a *Aggregator) Summarize(
	day string,
	roster []models.Promoter,
	recommendations map[string]map[string]models.Recommendation,
	selections models.SelectionState,
	orgs ranker.OrgResolver,
	statsMap map[string][]models.PromoterOrgStat,
	activeSlots models.ActiveSlots,
) models.DaySummary {
	out := models.DaySummary{Date: day}

	shiftDate, err := models.ParseDateKey(day)
	if err != nil {
		return out
	}

	for _, promoter := range roster {
		if !activeSlots.IsWorking(promoter.Name, day) {
			continue
		}

		stats := statsMap[promoter.Name]

		recommendedName := recommendations[promoter.Name][day].Top()
		if org, ok := orgs.ByName(recommendedName); ok {
			avg := a.avgContactsFor(stats, recommendedName)
			out.RecommendedContacts += roundContacts(avg)
			out.RecommendedIncome += a.model.EstimateNetShare(org, avg, shiftDate)
		}

		selectedName := selections[promoter.Name][day].OrganizationName
		if org, ok := orgs.ByName(selectedName); ok {
			avg := a.avgContactsFor(stats, selectedName)
			out.SelectedContacts += roundContacts(avg)
			out.SelectedIncome += a.model.EstimateNetShare(org, avg, shiftDate)
		}
	}

	out.ContactsDeltaPct = deltaPct(out.SelectedContacts, out.RecommendedContacts)
	out.IncomeDeltaPct = deltaPct(out.SelectedIncome, out.RecommendedIncome)
	return out
}

// avgContactsFor resolves the promoter's historical average at the given
// organization, falling back to the unweighted mean across all of the
// promoter's known organizations when there is no history there.
func (a *Aggregator) avgContactsFor(stats []models.PromoterOrgStat, orgName string) float64 {
	for _, stat := range stats {
		if stat.OrganizationName == orgName {
			return stat.AvgContactsPerShift
		}
	}

	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, stat := range stats {
		sum += stat.AvgContactsPerShift
	}
	return sum / float64(len(stats))
}

func roundContacts(avg float64) int {
	if avg <= 0 {
		return 0
	}
	return int(math.Floor(avg + 0.5))
}

// deltaPct is (selected - recommended) / recommended as a percentage,
// reporting 0 on a zero baseline instead of a division error.
func deltaPct(selected, recommended int) float64 {
	if recommended == 0 {
		return 0
	}
	return float64(selected-recommended) / float64(recommended) * 100
}

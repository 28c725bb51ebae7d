// Package ranker produces the per-promoter per-day top-3 organization
// recommendations, ordered by projected net share.
package ranker

import (
	"sort"

	"promoboard-engine/internal/engine/revenue"
	"promoboard-engine/internal/models"
)

// TopN is the number of organizations a recommendation carries.
const TopN = 3

// OrgResolver resolves organization payment terms by name; satisfied by
// the session catalog.
type OrgResolver interface {
	ByName(name string) (models.Organization, bool)
	Len() int
}

type Ranker struct {
	model *revenue.Model
}

func New(model *revenue.Model) *Ranker {
	return &Ranker{model: model}
}

// Rank rebuilds the whole recommendation map for the visible week. Only
// (promoter, date) pairs with an active work slot get an entry; a
// promoter with no usable stats on a working day gets an empty
// recommendation rather than none. Ranking is by projected net share
// descending, ties broken by historical shift count descending, then by
// the stable order of the stat list.
func (r *Ranker) Rank(
	roster []models.Promoter,
	statsMap map[string][]models.PromoterOrgStat,
	orgs OrgResolver,
	weekDays []string,
	activeSlots models.ActiveSlots,
) map[string]map[string]models.Recommendation {
	out := make(map[string]map[string]models.Recommendation, len(roster))

	for _, promoter := range roster {
		for _, day := range weekDays {
			if !activeSlots.IsWorking(promoter.Name, day) {
				continue
			}
			rec := r.rankDay(promoter.Name, day, statsMap[promoter.Name], orgs)
			if out[promoter.Name] == nil {
				out[promoter.Name] = make(map[string]models.Recommendation, len(weekDays))
			}
			out[promoter.Name][day] = rec
		}
	}

	return out
}

// rankDay ranks one promoter's known organizations for one date.
func (r *Ranker) rankDay(promoterName, day string, stats []models.PromoterOrgStat, orgs OrgResolver) models.Recommendation {
	rec := models.Recommendation{PromoterName: promoterName, Date: day}

	shiftDate, err := models.ParseDateKey(day)
	if err != nil {
		return rec
	}

	type scored struct {
		stat  models.PromoterOrgStat
		share int
	}

	candidates := make([]scored, 0, len(stats))
	for _, stat := range stats {
		org, ok := orgs.ByName(stat.OrganizationName)
		if !ok {
			// Unknown organizations carry no payment terms; with an empty
			// catalog nothing is rankable.
			continue
		}
		candidates = append(candidates, scored{
			stat:  stat,
			share: r.model.EstimateNetShare(org, stat.AvgContactsPerShift, shiftDate),
		})
	}

	// The final name tie-break keeps the order independent of how the
	// stat list happened to arrive.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].share != candidates[j].share {
			return candidates[i].share > candidates[j].share
		}
		if candidates[i].stat.ShiftCount != candidates[j].stat.ShiftCount {
			return candidates[i].stat.ShiftCount > candidates[j].stat.ShiftCount
		}
		return candidates[i].stat.OrganizationName < candidates[j].stat.OrganizationName
	})

	for i := 0; i < len(candidates) && i < TopN; i++ {
		rec.OrganizationNames = append(rec.OrganizationNames, candidates[i].stat.OrganizationName)
	}

	return rec
}

// Package engine coordinates one scheduling session: the organization
// catalog, the per-promoter stats, recommendation ranking, day summaries,
// and realized outcomes. All state lives on the session object; there are
// no package-level singletons.
package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/common/metrics"
	"promoboard-engine/internal/engine/catalog"
	"promoboard-engine/internal/engine/outcome"
	"promoboard-engine/internal/engine/ranker"
	"promoboard-engine/internal/engine/stats"
	"promoboard-engine/internal/engine/summary"
	"promoboard-engine/internal/models"
)

// Dependencies are the collaborators a session is constructed with.
type Dependencies struct {
	Organizations catalog.OrganizationFetcher
	Stats         *stats.Fetcher
	Ranker        *ranker.Ranker
	Aggregator    *summary.Aggregator
	Outcomes      *outcome.Cache
	Logger        logger.Logger
}

// Session owns the engine state for one visible week and roster.
//
// There is no cancellation of in-flight fetches: a reload that arrives
// while another is running simply bumps the generation, and the older
// reload's results are discarded when they land.
type Session struct {
	id   string
	deps Dependencies

	mu              sync.Mutex
	generation      uint64
	catalog         *catalog.Catalog
	roster          []models.Promoter
	weekDays        []string
	activeSlots     models.ActiveSlots
	statsMap        map[string][]models.PromoterOrgStat
	recommendations map[string]map[string]models.Recommendation
	progress        int
}

func NewSession(deps Dependencies) *Session {
	return &Session{
		id:       uuid.NewString(),
		deps:     deps,
		catalog:  catalog.New(deps.Organizations, deps.Logger),
		statsMap: make(map[string][]models.PromoterOrgStat),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Reload replaces the session inputs and refetches the catalog and the
// per-promoter stats in parallel, then rebuilds the recommendation map
// wholesale. If another Reload starts while this one is in flight, the
// stale results are discarded instead of applied.
func (s *Session) Reload(ctx context.Context, roster []models.Promoter, weekDays []string, activeSlots models.ActiveSlots) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.roster = roster
	s.weekDays = weekDays
	s.activeSlots = activeSlots
	s.progress = 0
	s.mu.Unlock()

	s.deps.Logger.Info("session reload", map[string]interface{}{
		"session":    s.id,
		"generation": gen,
		"promoters":  len(roster),
		"days":       len(weekDays),
	})

	freshCatalog := catalog.New(s.deps.Organizations, s.deps.Logger)

	var wg sync.WaitGroup
	var statsMap map[string][]models.PromoterOrgStat

	wg.Add(2)
	go func() {
		defer wg.Done()
		freshCatalog.Load(ctx)
	}()
	go func() {
		defer wg.Done()
		statsMap = s.deps.Stats.Fetch(ctx, roster, func(percent int) {
			s.setProgress(gen, percent)
		})
	}()
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		metrics.StaleGenerationsDiscarded.Inc()
		s.deps.Logger.Debug("discarding stale reload results", map[string]interface{}{
			"session":    s.id,
			"generation": gen,
			"current":    s.generation,
		})
		return
	}

	s.catalog = freshCatalog
	s.statsMap = statsMap
	s.recommendations = s.deps.Ranker.Rank(roster, statsMap, freshCatalog, weekDays, activeSlots)
}

func (s *Session) setProgress(gen uint64, percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.progress = percent
	}
}

// Progress reports the current stats-fetch progress (0-100).
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Recommendations returns the current recommendation map.
func (s *Session) Recommendations() map[string]map[string]models.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommendations
}

// Stats returns the current per-promoter stat lists.
func (s *Session) Stats() map[string][]models.PromoterOrgStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsMap
}

// CatalogSize reports how many organizations the session knows.
func (s *Session) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Len()
}

// DaySummary aggregates recommended-vs-selected contacts and income for
// one day using the session's current state and the UI's selections.
func (s *Session) DaySummary(day string, selections models.SelectionState) models.DaySummary {
	s.mu.Lock()
	roster := s.roster
	recs := s.recommendations
	cat := s.catalog
	statsMap := s.statsMap
	slots := s.activeSlots
	s.mu.Unlock()

	return s.deps.Aggregator.Summarize(day, roster, recs, selections, cat, statsMap, slots)
}

// Actuals returns realized outcomes for the dates through the 5-minute
// cache.
func (s *Session) Actuals(ctx context.Context, dates []string) map[string]models.ActualOutcome {
	return s.deps.Outcomes.GetOrFetch(ctx, dates)
}

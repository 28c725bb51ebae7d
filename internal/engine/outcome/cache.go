// Package outcome maintains the time-boxed cache of realized contacts
// and revenue per date, merged from the lead-count feed and the
// accounting ledger.
package outcome

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	engerrors "promoboard-engine/internal/common/errors"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/common/metrics"
	"promoboard-engine/internal/engine/revenue"
	"promoboard-engine/internal/models"
)

const keyPrefix = "actuals:"

// Store is the local key-value store holding cached outcome maps;
// satisfied by the redis client wrapper.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Feeds are the two independent remote sources merged into outcomes.
type Feeds interface {
	FetchScheduleStats(ctx context.Context, dates []string) (map[string]int, error)
	FetchAccountingData(ctx context.Context) ([]models.LedgerShift, error)
}

// cacheEntry is the serialized form written to the store. FetchedAt is a
// millisecond timestamp; expiry itself is enforced by the store TTL.
type cacheEntry struct {
	Outcomes  map[string]models.ActualOutcome `json:"outcomes"`
	FetchedAt int64                           `json:"fetchedAt"`
}

// Cache answers outcome queries from the store when the entry for the
// exact date set is fresh, and otherwise fetches and merges both feeds.
// Concurrent misses for the same key share a single remote fetch.
type Cache struct {
	feeds  Feeds
	store  Store
	model  *revenue.Model
	logger logger.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]*inflightFetch
}

type inflightFetch struct {
	done   chan struct{}
	result map[string]models.ActualOutcome
}

func New(feeds Feeds, store Store, model *revenue.Model, log logger.Logger, ttl time.Duration) *Cache {
	return &Cache{
		feeds:    feeds,
		store:    store,
		model:    model,
		logger:   log,
		ttl:      ttl,
		now:      time.Now,
		inflight: make(map[string]*inflightFetch),
	}
}

// CacheKey derives the store key from the sorted, joined date set.
func CacheKey(dates []string) string {
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)
	return keyPrefix + strings.Join(sorted, ",")
}

// GetOrFetch returns realized outcomes for the requested dates. A fresh
// cache entry for the identical date set short-circuits the remote fetch
// entirely. Dates with no data are simply absent from the result.
func (c *Cache) GetOrFetch(ctx context.Context, dates []string) map[string]models.ActualOutcome {
	key := CacheKey(dates)

	if outcomes, ok := c.lookup(ctx, key); ok {
		metrics.OutcomeCacheHits.Inc()
		return outcomes
	}
	metrics.OutcomeCacheMisses.Inc()

	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.result
	}
	call := &inflightFetch{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	defer func() {
		close(call.done)
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	call.result = c.fetchAndMerge(ctx, dates)
	c.persist(ctx, key, call.result)
	return call.result
}

func (c *Cache) lookup(ctx context.Context, key string) (map[string]models.ActualOutcome, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			rerr := engerrors.NewCacheReadFailedError(key, err)
			c.logger.Warn("outcome cache read failed, refetching", map[string]interface{}{
				"code":    string(rerr.Code),
				"details": rerr.Details,
			})
		}
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("outcome cache entry corrupt, refetching", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	return entry.Outcomes, true
}

// fetchAndMerge pulls both feeds concurrently and merges them per date.
// Each feed fails soft: a failed feed leaves its contribution at zero
// without touching the other's.
func (c *Cache) fetchAndMerge(ctx context.Context, dates []string) map[string]models.ActualOutcome {
	requested := make(map[string]bool, len(dates))
	for _, d := range dates {
		requested[d] = true
	}

	var (
		wg       sync.WaitGroup
		counts   map[string]int
		shifts   []models.LedgerShift
		countErr error
		shiftErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		counts, countErr = c.feeds.FetchScheduleStats(ctx, dates)
	}()
	go func() {
		defer wg.Done()
		shifts, shiftErr = c.feeds.FetchAccountingData(ctx)
	}()
	wg.Wait()

	if countErr != nil {
		c.logger.Warn("realized contacts feed failed, contacts stay zero", map[string]interface{}{
			"error": countErr.Error(),
		})
	}
	if shiftErr != nil {
		c.logger.Warn("accounting ledger feed failed, revenue stays zero", map[string]interface{}{
			"error": shiftErr.Error(),
		})
	}

	outcomes := make(map[string]models.ActualOutcome)

	for date, count := range counts {
		if !requested[date] {
			continue
		}
		o := outcomes[date]
		o.Date = date
		o.RealizedContacts += count
		outcomes[date] = o
	}

	for _, rec := range shifts {
		if !requested[rec.Date] {
			continue
		}
		o := outcomes[rec.Date]
		o.Date = rec.Date
		o.RealizedRevenue += c.model.EstimateLedgerNet(rec)
		outcomes[rec.Date] = o
	}

	return outcomes
}

func (c *Cache) persist(ctx context.Context, key string, outcomes map[string]models.ActualOutcome) {
	entry := cacheEntry{
		Outcomes:  outcomes,
		FetchedAt: c.now().UnixMilli(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("outcome cache entry marshal failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if err := c.store.Set(ctx, key, string(raw), c.ttl); err != nil {
		werr := engerrors.NewCacheWriteFailedError(key, err)
		c.logger.Warn("outcome cache write failed", map[string]interface{}{
			"code":    string(werr.Code),
			"details": werr.Details,
		})
	}
}

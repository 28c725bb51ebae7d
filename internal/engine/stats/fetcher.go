// Package stats retrieves each promoter's historical per-organization
// averages from the remote store under a batch/sleep throttle.
package stats

import (
	"context"
	"sort"
	"sync"
	"time"

	"promoboard-engine/internal/common/config"
	engerrors "promoboard-engine/internal/common/errors"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/common/metrics"
	"promoboard-engine/internal/common/observability"
	"promoboard-engine/internal/models"
)

// Source is the remote collaborator serving per-promoter stats.
type Source interface {
	FetchUserOrgStats(ctx context.Context, promoterName, email string) ([]models.PromoterOrgStat, error)
}

// ProgressFunc receives a 0-100 integer as promoters complete. Values
// are monotonically non-decreasing and reach exactly 100 once the last
// batch settles.
type ProgressFunc func(percent int)

// Fetcher partitions the roster into fixed-size batches. Requests inside
// a batch run concurrently; a fixed delay separates batches. This is a
// deliberate backpressure throttle against the remote store, not a
// bounded-concurrency pool. Batch N+1 never starts before batch N has
// fully settled and the delay elapsed.
type Fetcher struct {
	source     Source
	logger     logger.Logger
	obs        *observability.Observability
	batchSize  int
	batchDelay time.Duration
}

func New(source Source, log logger.Logger, obs *observability.Observability, cfg config.FetcherConfig) *Fetcher {
	return &Fetcher{
		source:     source,
		logger:     log,
		obs:        obs,
		batchSize:  cfg.BatchSize,
		batchDelay: config.GetDuration(cfg.BatchDelay),
	}
}

// Fetch retrieves stats for every promoter on the roster. Failures are
// per-promoter soft-fails: a failed or keyless promoter contributes no
// stats and the rest of the batch continues. The returned map holds one
// pre-sorted list (descending by average contacts) per promoter that
// produced data.
func (f *Fetcher) Fetch(ctx context.Context, promoters []models.Promoter, onProgress ProgressFunc) map[string][]models.PromoterOrgStat {
	results := make(map[string][]models.PromoterOrgStat)

	total := len(promoters)
	if total == 0 {
		reportProgress(onProgress, 100)
		return results
	}

	var mu sync.Mutex
	completed := 0

	// The callback runs under the lock so concurrent completions within a
	// batch cannot deliver percentages out of order.
	markDone := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		reportProgress(onProgress, completed*100/total)
	}

	for start := 0; start < total; start += f.batchSize {
		if start > 0 {
			select {
			case <-time.After(f.batchDelay):
			case <-ctx.Done():
				f.logger.Warn("stats fetch interrupted between batches", map[string]interface{}{
					"completed": completed,
					"total":     total,
				})
				return results
			}
		}

		end := start + f.batchSize
		if end > total {
			end = total
		}

		batchStart := time.Now()
		var wg sync.WaitGroup
		for _, promoter := range promoters[start:end] {
			if promoter.Email == "" {
				kerr := engerrors.NewMissingPromoterKeyError(promoter.Name)
				f.logger.Warn("promoter has no identifying key, skipping", map[string]interface{}{
					"code":    string(kerr.Code),
					"details": kerr.Details,
				})
				markDone()
				continue
			}

			wg.Add(1)
			go func(p models.Promoter) {
				defer wg.Done()
				defer markDone()

				orgStats, err := f.source.FetchUserOrgStats(ctx, p.Name, p.Email)
				if err != nil {
					f.logger.Warn("stats fetch failed for promoter, skipping", map[string]interface{}{
						"promoter": p.Name,
						"error":    err.Error(),
					})
					return
				}

				sort.SliceStable(orgStats, func(i, j int) bool {
					return orgStats[i].AvgContactsPerShift > orgStats[j].AvgContactsPerShift
				})

				// Each batch writes a disjoint set of promoter keys.
				mu.Lock()
				results[p.Name] = orgStats
				mu.Unlock()
			}(promoter)
		}
		wg.Wait()

		if f.obs != nil {
			f.obs.RecordBatchProcessed(ctx, "completed")
			f.obs.RecordBatchDuration(ctx, time.Since(batchStart), "completed")
		}
	}

	f.logger.Info("per-promoter stats fetch complete", map[string]interface{}{
		"promoters":  total,
		"withStats":  len(results),
		"batchSize":  f.batchSize,
		"batchDelay": f.batchDelay.String(),
	})

	return results
}

func reportProgress(onProgress ProgressFunc, percent int) {
	metrics.StatsFetchProgress.Set(float64(percent))
	if onProgress != nil {
		onProgress(percent)
	}
}

package outcome

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoboard-engine/internal/common/config"
	"promoboard-engine/internal/common/database"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/engine/revenue"
	"promoboard-engine/internal/models"
)

type fakeFeeds struct {
	mu         sync.Mutex
	counts     map[string]int
	shifts     []models.LedgerShift
	countCalls int
	shiftCalls int
	countErr   error
	shiftErr   error
	block      chan struct{} // when set, feed A parks until closed
}

func (f *fakeFeeds) FetchScheduleStats(ctx context.Context, dates []string) (map[string]int, error) {
	f.mu.Lock()
	f.countCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

func (f *fakeFeeds) FetchAccountingData(ctx context.Context) ([]models.LedgerShift, error) {
	f.mu.Lock()
	f.shiftCalls++
	f.mu.Unlock()
	if f.shiftErr != nil {
		return nil, f.shiftErr
	}
	return f.shifts, nil
}

func ledgerModel() *revenue.Model {
	// Same constructor the production wiring uses: the date gate in the
	// config must not leak into ledger settlement.
	return revenue.NewLedgerModel(config.RevenueConfig{
		TierDate:             "2025-10-01",
		TierThreshold:        10,
		BaseSalaryRate:       200,
		TierSalaryRate:       300,
		TierRequiresDateGate: true,
	})
}

func newTestCache(t *testing.T, feeds Feeds) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(feeds, store, ledgerModel(), logger.NewTestLogger(t), 5*time.Minute), mr
}

func TestGetOrFetch_MergesBothFeeds(t *testing.T) {
	feeds := &fakeFeeds{
		counts: map[string]int{"2025-11-01": 14, "2025-11-02": 6},
		shifts: []models.LedgerShift{
			{Date: "2025-11-01", ContactsCount: 10, Organization: "Org C", ContactRate: 500,
				CompensationAmount: 250, PaymentType: models.PaymentCashless, ExpenseAmount: 100},
			{Date: "2025-11-01", ContactsCount: 4, Organization: revenue.AdministratorOrg,
				CompensationAmount: 50, ExpenseAmount: 30},
		},
	}

	cache, _ := newTestCache(t, feeds)
	got := cache.GetOrFetch(context.Background(), []string{"2025-11-01", "2025-11-02"})

	// Rate-based record nets 975, Administrator record nets 1118.
	assert.Equal(t, models.ActualOutcome{
		Date:             "2025-11-01",
		RealizedContacts: 14,
		RealizedRevenue:  975 + 1118,
	}, got["2025-11-01"])

	assert.Equal(t, 6, got["2025-11-02"].RealizedContacts)
	assert.Zero(t, got["2025-11-02"].RealizedRevenue)

	_, present := got["2025-11-03"]
	assert.False(t, present, "unrequested and absent dates stay out of the map")
}

func TestGetOrFetch_CacheHitSkipsRemote(t *testing.T) {
	feeds := &fakeFeeds{counts: map[string]int{"2025-11-01": 3}}
	cache, _ := newTestCache(t, feeds)

	dates := []string{"2025-11-02", "2025-11-01"}
	first := cache.GetOrFetch(context.Background(), dates)

	// Same date set in a different order must hit the same key.
	second := cache.GetOrFetch(context.Background(), []string{"2025-11-01", "2025-11-02"})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, feeds.countCalls)
	assert.Equal(t, 1, feeds.shiftCalls)
}

func TestGetOrFetch_ExpiresAfterTTL(t *testing.T) {
	feeds := &fakeFeeds{counts: map[string]int{"2025-11-01": 3}}
	cache, mr := newTestCache(t, feeds)

	dates := []string{"2025-11-01"}
	cache.GetOrFetch(context.Background(), dates)
	mr.FastForward(5*time.Minute + time.Second)
	cache.GetOrFetch(context.Background(), dates)

	assert.Equal(t, 2, feeds.countCalls)
	assert.Equal(t, 2, feeds.shiftCalls)
}

func TestGetOrFetch_DifferentDateSetsAreSeparateKeys(t *testing.T) {
	feeds := &fakeFeeds{counts: map[string]int{}}
	cache, _ := newTestCache(t, feeds)

	cache.GetOrFetch(context.Background(), []string{"2025-11-01"})
	cache.GetOrFetch(context.Background(), []string{"2025-11-01", "2025-11-02"})

	assert.Equal(t, 2, feeds.countCalls)
}

func TestGetOrFetch_FeedFailuresAreIndependent(t *testing.T) {
	feeds := &fakeFeeds{
		countErr: assert.AnError,
		shifts: []models.LedgerShift{
			{Date: "2025-11-01", ContactsCount: 10, Organization: "Org C", ContactRate: 500,
				CompensationAmount: 250, PaymentType: models.PaymentCashless, ExpenseAmount: 100},
		},
	}

	cache, _ := newTestCache(t, feeds)
	got := cache.GetOrFetch(context.Background(), []string{"2025-11-01"})

	assert.Zero(t, got["2025-11-01"].RealizedContacts)
	assert.Equal(t, 975, got["2025-11-01"].RealizedRevenue)
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", assert.AnError
}

func (failingStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return assert.AnError
}

func TestGetOrFetch_StoreFailureStillServesFeeds(t *testing.T) {
	feeds := &fakeFeeds{counts: map[string]int{"2025-11-01": 5}}
	cache := New(feeds, failingStore{}, ledgerModel(), logger.NewNoOpLogger(), 5*time.Minute)

	// An unreachable store degrades to a remote fetch on every call; the
	// result itself stays correct.
	got := cache.GetOrFetch(context.Background(), []string{"2025-11-01"})
	assert.Equal(t, 5, got["2025-11-01"].RealizedContacts)
	assert.Equal(t, 1, feeds.countCalls)

	got = cache.GetOrFetch(context.Background(), []string{"2025-11-01"})
	assert.Equal(t, 5, got["2025-11-01"].RealizedContacts)
	assert.Equal(t, 2, feeds.countCalls)
}

func TestGetOrFetch_ConcurrentMissesShareOneFetch(t *testing.T) {
	feeds := &fakeFeeds{
		counts: map[string]int{"2025-11-01": 5},
		block:  make(chan struct{}),
	}
	cache, _ := newTestCache(t, feeds)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]map[string]models.ActualOutcome, callers)

	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = cache.GetOrFetch(context.Background(), []string{"2025-11-01"})
		}(i)
	}

	// Give the callers time to pile onto the in-flight fetch, then
	// release feed A.
	time.Sleep(50 * time.Millisecond)
	close(feeds.block)
	wg.Wait()

	assert.Equal(t, 1, feeds.countCalls, "in-flight guard must deduplicate the fetch")
	for i := 1; i < callers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestCacheKey_SortsDates(t *testing.T) {
	assert.Equal(t,
		CacheKey([]string{"2025-11-03", "2025-11-01", "2025-11-02"}),
		CacheKey([]string{"2025-11-01", "2025-11-02", "2025-11-03"}))
	assert.Equal(t, "actuals:2025-11-01", CacheKey([]string{"2025-11-01"}))
}

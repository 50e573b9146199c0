package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/line-assistant-be/types"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    int64
	fail     map[string]bool
	delay    map[string]time.Duration
	gate     chan struct{}
	honorCtx bool
	content  func(pageID string) string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		fail:  make(map[string]bool),
		delay: make(map[string]time.Duration),
		content: func(pageID string) string {
			return "content of " + pageID
		},
	}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, pageID string) (*types.KnowledgePage, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.honorCtx {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if d := f.delay[pageID]; d > 0 {
		time.Sleep(d)
	}
	if f.fail[pageID] {
		return nil, fmt.Errorf("fetch %s: boom", pageID)
	}
	return &types.KnowledgePage{
		PageID:  pageID,
		Title:   "Title " + pageID,
		Content: f.content(pageID),
	}, nil
}

func (f *fakeFetcher) callCount() int64 {
	return atomic.LoadInt64(&f.calls)
}

func newTestKnowledgeService(fetcher PageFetcher, pageIDs []string, ttl time.Duration, now func() time.Time) *knowledgeService {
	return &knowledgeService{
		fetcher: fetcher,
		pageIDs: pageIDs,
		ttl:     ttl,
		now:     now,
	}
}

func TestSnapshotDeterministic(t *testing.T) {
	fetcher := newFakeFetcher()
	svc := newTestKnowledgeService(fetcher, []string{"p1", "p2", "p3"}, time.Hour, time.Now)

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	svc.Invalidate()
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.CombinedContext, second.CombinedContext)
	assert.Equal(t, "--- Page: Title p1 ---\ncontent of p1\n\n--- Page: Title p2 ---\ncontent of p2\n\n--- Page: Title p3 ---\ncontent of p3", first.CombinedContext)
}

func TestSnapshotTTL(t *testing.T) {
	fetcher := newFakeFetcher()
	current := time.Unix(1000, 0)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	svc := newTestKnowledgeService(fetcher, []string{"p1"}, time.Hour, now)

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, fetcher.callCount(), "fresh snapshot must be reused")

	mu.Lock()
	current = current.Add(time.Hour + time.Second)
	mu.Unlock()

	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.callCount(), "expired snapshot must trigger exactly one refill")
}

func TestInvalidateForcesRefill(t *testing.T) {
	fetcher := newFakeFetcher()
	svc := newTestKnowledgeService(fetcher, []string{"p1"}, time.Hour, time.Now)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	svc.Invalidate()

	refilled, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.callCount())
	assert.Equal(t, snap.CombinedContext, refilled.CombinedContext)
}

func TestSnapshotSingleFlight(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	svc := newTestKnowledgeService(fetcher, []string{"p1", "p2"}, time.Hour, time.Now)

	const callers = 20
	results := make([]*types.KnowledgeSnapshot, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := svc.Snapshot(context.Background())
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	// Let the callers pile up on the in-flight fill before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	assert.EqualValues(t, 2, fetcher.callCount(), "one fill means one fetch per page")
	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
}

func TestInvalidateDuringFillForcesRefill(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	svc := newTestKnowledgeService(fetcher, []string{"p1"}, time.Hour, time.Now)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Snapshot(context.Background())
		assert.NoError(t, err)
	}()

	// Invalidate once the fill is underway but before it completes; the
	// result of that fill is already outdated and must not be kept fresh.
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)
	svc.Invalidate()
	close(fetcher.gate)
	wg.Wait()

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.callCount(), "invalidation during a fill must still force a refill")
}

func TestCancelledCallerDoesNotPoisonCache(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.honorCtx = true
	svc := newTestKnowledgeService(fetcher, []string{"p1"}, time.Hour, time.Now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fill is shared state; a caller arriving with a dead context must
	// not install an empty snapshot that later callers get stuck with.
	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.CombinedContext, "content of p1")

	later, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, later.CombinedContext, "content of p1")
	assert.EqualValues(t, 1, fetcher.callCount())
}

func TestSnapshotNoPagesConfigured(t *testing.T) {
	fetcher := newFakeFetcher()
	svc := newTestKnowledgeService(fetcher, nil, time.Hour, time.Now)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoPagesContext, snap.CombinedContext)
	assert.Empty(t, snap.Pages)
	assert.EqualValues(t, 0, fetcher.callCount())
}

func TestSnapshotFetchFailureIsolated(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.fail["p2"] = true
	// Make the first page the slowest so configured order cannot come from
	// completion order.
	fetcher.delay["p1"] = 30 * time.Millisecond
	svc := newTestKnowledgeService(fetcher, []string{"p1", "p2", "p3"}, time.Hour, time.Now)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Pages, 2)
	assert.Equal(t, "p1", snap.Pages[0].PageID)
	assert.Equal(t, "p3", snap.Pages[1].PageID)
	assert.NotContains(t, snap.CombinedContext, "p2")
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tieubaoca/line-assistant-be/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoPagesContext is handed to the generator when no knowledge pages are
// configured, so the prompt still carries a descriptive context.
const NoPagesContext = "No Notion pages configured."

// PageFetcher retrieves one knowledge page with its content already
// flattened to plain text.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageID string) (*types.KnowledgePage, error)
}

// KnowledgeService caches the combined knowledge context. A snapshot lives
// until its TTL expires or Invalidate marks it stale; concurrent callers
// during a miss share one fill.
type KnowledgeService interface {
	Snapshot(ctx context.Context) (*types.KnowledgeSnapshot, error)
	Invalidate()
}

type knowledgeService struct {
	fetcher PageFetcher
	pageIDs []string
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   *types.KnowledgeSnapshot
	stale      bool
	generation uint64
}

func NewKnowledgeService(fetcher PageFetcher, pageIDs []string, ttl time.Duration) KnowledgeService {
	return &knowledgeService{
		fetcher: fetcher,
		pageIDs: pageIDs,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *knowledgeService) Snapshot(ctx context.Context) (*types.KnowledgeSnapshot, error) {
	if snap := s.fresh(); snap != nil {
		return snap, nil
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	// The flight is keyed per cache generation: callers arriving after an
	// Invalidate never join a fill started before it.
	v, err, _ := s.group.Do(fmt.Sprintf("fill-%d", generation), func() (interface{}, error) {
		// A fill may have completed between the freshness check and joining
		// the flight; reuse it instead of fetching again.
		if snap := s.fresh(); snap != nil {
			return snap, nil
		}

		// The fill outcome is shared by every caller until TTL, so it must
		// not die with the first caller's request.
		snap := s.fill(context.WithoutCancel(ctx))

		s.mu.Lock()
		s.snapshot = snap
		// An Invalidate issued while this fill was in flight bumped the
		// generation; the snapshot stays stale so the next get refills.
		if s.generation == generation {
			s.stale = false
		}
		s.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.KnowledgeSnapshot), nil
}

// Invalidate marks the current snapshot stale without discarding it. The
// next Snapshot call triggers a refill regardless of TTL, even when a fill
// was already in flight at the time of the call.
func (s *knowledgeService) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.generation++
	s.mu.Unlock()
}

func (s *knowledgeService) fresh() *types.KnowledgeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil || s.stale {
		return nil
	}
	if s.now().Sub(s.snapshot.FetchedAt) >= s.ttl {
		return nil
	}
	return s.snapshot
}

func (s *knowledgeService) fill(ctx context.Context) *types.KnowledgeSnapshot {
	fetchedAt := s.now()

	if len(s.pageIDs) == 0 {
		return &types.KnowledgeSnapshot{
			CombinedContext: NoPagesContext,
			Pages:           []*types.KnowledgePage{},
			FetchedAt:       fetchedAt,
		}
	}

	zap.L().Info("knowledge cache miss, fetching pages", zap.Int("pages", len(s.pageIDs)))

	// Fetch concurrently but keep results slotted by configured order; a
	// failed page leaves a nil slot and never aborts its siblings.
	results := make([]*types.KnowledgePage, len(s.pageIDs))
	var wg sync.WaitGroup
	for i, id := range s.pageIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			page, err := s.fetcher.FetchPage(ctx, id)
			if err != nil {
				zap.L().Warn("knowledge page fetch failed", zap.String("page_id", id), zap.Error(err))
				return
			}
			results[i] = page
		}(i, id)
	}
	wg.Wait()

	pages := make([]*types.KnowledgePage, 0, len(results))
	for _, page := range results {
		if page != nil {
			pages = append(pages, page)
		}
	}

	return &types.KnowledgeSnapshot{
		CombinedContext: combineContext(pages),
		Pages:           pages,
		FetchedAt:       fetchedAt,
	}
}

func combineContext(pages []*types.KnowledgePage) string {
	sections := make([]string, 0, len(pages))
	for _, page := range pages {
		title := page.Title
		if title == "" {
			title = page.PageID
		}
		sections = append(sections, fmt.Sprintf("--- Page: %s ---\n%s", title, page.Content))
	}
	return strings.Join(sections, "\n\n")
}

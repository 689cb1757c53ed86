package imageresolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aurinko-app/daycal/internal/fetchqueue"
	"github.com/aurinko-app/daycal/internal/imagestore"
	"github.com/aurinko-app/daycal/internal/photoprovider"
)

func TestMain(m *testing.M) {
	// The negative cache keeps a janitor goroutine alive until GC.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

// fakeProvider counts calls and serves canned metadata and bytes.
type fakeProvider struct {
	mu         sync.Mutex
	fetchCalls atomic.Int64
	fetchErr   error
	block      chan struct{} // when set, FetchRandomPhoto waits on it
	meta       photoprovider.PhotoMetadata
	data       []byte
}

func (p *fakeProvider) FetchRandomPhoto(ctx context.Context, query string) (*photoprovider.PhotoMetadata, error) {
	p.fetchCalls.Add(1)
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	meta := p.meta
	return &meta, nil
}

func (p *fakeProvider) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data, nil
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		meta: photoprovider.PhotoMetadata{
			SourceID:     "src-1",
			FullURL:      "https://images.example.com/src-1/full.jpg",
			ThumbnailURL: "https://images.example.com/src-1/thumb.jpg",
			Author:       "Jane Photographer",
			Tags:         []string{"mountain"},
		},
		data: []byte{0xff, 0xd8, 0xff},
	}
}

func newTestResolver(t *testing.T, provider PhotoProvider) (*Resolver, *imagestore.Store) {
	t.Helper()
	store, err := imagestore.New(t.TempDir())
	require.NoError(t, err)
	queue := fetchqueue.New(2, nil)
	t.Cleanup(func() {
		require.NoError(t, queue.Stop(5*time.Second))
	})
	return New(store, queue, provider, nil), store
}

func freshRecord(id, title, location string, tags ...string) imagestore.ImageRecord {
	return imagestore.ImageRecord{
		ID:            id,
		FullURL:       "https://images.example.com/" + id + "/full.jpg",
		CachedAt:      time.Now(),
		Tags:          tags,
		TitleQuery:    title,
		LocationQuery: location,
	}
}

func TestResolveAssignedImageShortCircuits(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	require.NoError(t, store.Put(freshRecord("img-1", "team standup", "")))

	event := Event{Title: "Completely Different", AssignedImageID: "img-1"}
	id, updated, err := resolver.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "img-1", id)
	assert.Equal(t, "img-1", updated.AssignedImageID)
	assert.Zero(t, provider.fetchCalls.Load(), "assigned cached image must not trigger a fetch")
}

func TestResolveExpiredAssignmentFallsThrough(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	expired := freshRecord("img-old", "morning run", "")
	expired.CachedAt = time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, store.Put(expired))

	event := Event{Title: "Morning Run", AssignedImageID: "img-old"}
	id, updated, err := resolver.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.NotEqual(t, "img-old", id)
	assert.NotEmpty(t, id, "fetch should supply a replacement")
	assert.Equal(t, id, updated.AssignedImageID)
	assert.EqualValues(t, 1, provider.fetchCalls.Load())
}

func TestResolveHighSimilarityAvoidsFetch(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	// Containment scores 2.0, above the 1.5 auto-accept bar.
	require.NoError(t, store.Put(freshRecord("img-run", "morning run club", "")))

	id, updated, err := resolver.Resolve(context.Background(), Event{Title: "Morning Run"})
	require.NoError(t, err)
	assert.Equal(t, "img-run", id)
	assert.Equal(t, "img-run", updated.AssignedImageID)
	assert.Zero(t, provider.fetchCalls.Load(), "a 2.0-scoring cached record must short-circuit the fetch")
}

func TestResolveLocationOnlyEventMatchesExactly(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	require.NoError(t, store.Put(freshRecord("img-hel", "", "Helsinki")))

	id, _, err := resolver.Resolve(context.Background(), Event{Location: "Helsinki"})
	require.NoError(t, err)
	assert.Equal(t, "img-hel", id)
	assert.Zero(t, provider.fetchCalls.Load())
}

func TestResolveWeakMatchStillAssigns(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	// One overlapping word (0.5) plus one tag hit (0.3) totals 0.8,
	// below auto-accept but above the floor.
	require.NoError(t, store.Put(freshRecord("img-picnic", "sunset picnic park", "", "beach")))

	id, _, err := resolver.Resolve(context.Background(), Event{Title: "Beach Picnic"})
	require.NoError(t, err)
	assert.Equal(t, "img-picnic", id)
	assert.Zero(t, provider.fetchCalls.Load())
}

func TestResolveFetchesAndPersistsWhenCacheEmpty(t *testing.T) {
	provider := newFakeProvider()
	resolver, store := newTestResolver(t, provider)

	event := Event{Title: "Lake Swim", Location: "Espoo"}
	id, updated, err := resolver.Resolve(context.Background(), event)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, updated.AssignedImageID)

	record, ok := store.Get(id)
	require.True(t, ok, "new record must be persisted")
	assert.Equal(t, "src-1", record.SourceID)
	assert.Equal(t, "lake swim", record.TitleQuery)
	assert.Equal(t, "Espoo", record.LocationQuery)

	data, err := store.ImageData(id)
	require.NoError(t, err)
	assert.Equal(t, provider.data, data)

	// The input event is untouched.
	assert.Empty(t, event.AssignedImageID)
}

func TestResolveSecondCallHitsNewRecord(t *testing.T) {
	provider := newFakeProvider()
	resolver, _ := newTestResolver(t, provider)

	event := Event{Title: "Lake Swim"}
	firstID, updated, err := resolver.Resolve(context.Background(), event)
	require.NoError(t, err)

	secondID, _, err := resolver.Resolve(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)
	assert.EqualValues(t, 1, provider.fetchCalls.Load())
}

func TestResolveFetchFailureReturnsAbsent(t *testing.T) {
	provider := newFakeProvider()
	provider.fetchErr = photoprovider.ErrPhotoNotFound
	resolver, _ := newTestResolver(t, provider)

	id, updated, err := resolver.Resolve(context.Background(), Event{Title: "xyzzy"})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, updated.AssignedImageID)
}

func TestResolveFailedQueryIsNegativeCached(t *testing.T) {
	provider := newFakeProvider()
	provider.fetchErr = photoprovider.ErrPhotoNotFound
	resolver, _ := newTestResolver(t, provider)

	for n := 0; n < 3; n++ {
		id, _, err := resolver.Resolve(context.Background(), Event{Title: "xyzzy"})
		require.NoError(t, err)
		assert.Empty(t, id)
	}
	assert.EqualValues(t, 1, provider.fetchCalls.Load(),
		"repeated misses for the same query must not reach the provider again")
}

func TestResolveConcurrentSameQueryCoalesces(t *testing.T) {
	provider := newFakeProvider()
	provider.block = make(chan struct{})
	resolver, _ := newTestResolver(t, provider)

	const waiters = 5
	ids := make([]string, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _, err := resolver.Resolve(context.Background(), Event{Title: "Lake Swim"})
			assert.NoError(t, err)
			ids[i] = id
		}()
	}

	// Let all resolutions reach the queue before releasing the provider.
	assert.Eventually(t, func() bool {
		return provider.fetchCalls.Load() == 1
	}, time.Second, 10*time.Millisecond)
	close(provider.block)
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
		assert.NotEmpty(t, id)
	}
	assert.EqualValues(t, 1, provider.fetchCalls.Load())
}

func TestResolveEmptyEventReturnsAbsent(t *testing.T) {
	provider := newFakeProvider()
	resolver, _ := newTestResolver(t, provider)

	id, _, err := resolver.Resolve(context.Background(), Event{})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, provider.fetchCalls.Load())
}

// Package imageresolver answers "which image belongs to this event". It
// prefers an already assigned cached image, then the best-scoring cached
// candidate, and only goes to the network when the cache has nothing good
// enough.
package imageresolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/aurinko-app/daycal/internal/errors"
	"github.com/aurinko-app/daycal/internal/fetchqueue"
	"github.com/aurinko-app/daycal/internal/imagestore"
	"github.com/aurinko-app/daycal/internal/logging"
	"github.com/aurinko-app/daycal/internal/observability/metrics"
	"github.com/aurinko-app/daycal/internal/photoprovider"
	"github.com/aurinko-app/daycal/internal/similarity"
)

const (
	serviceName = "imageresolver"

	// Failed provider queries are remembered briefly so repeated
	// resolutions of the same event do not hammer the provider.
	negativeCacheTTL     = 15 * time.Minute
	negativeCacheCleanup = 30 * time.Minute
)

// Event is the caller-facing view of a calendar event. The resolver reads
// Title and Location and is the only writer of AssignedImageID.
type Event struct {
	Title           string
	Location        string
	AssignedImageID string
}

// PhotoProvider fetches new photos from the external image API.
type PhotoProvider interface {
	FetchRandomPhoto(ctx context.Context, query string) (*photoprovider.PhotoMetadata, error)
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Resolver orchestrates the metadata store, the similarity matcher and the
// fetch queue. Thread-safe for concurrent resolutions of distinct events;
// concurrent resolutions of the same query coalesce into one fetch.
type Resolver struct {
	store    *imagestore.Store
	queue    *fetchqueue.Queue
	provider PhotoProvider
	profile  similarity.Profile
	negative *gocache.Cache
	metrics  *metrics.ImageResolverMetrics
	logger   *slog.Logger
}

// New creates a resolver using the resolution weight profile. metrics may
// be nil.
func New(store *imagestore.Store, queue *fetchqueue.Queue, provider PhotoProvider, m *metrics.ImageResolverMetrics) *Resolver {
	return &Resolver{
		store:    store,
		queue:    queue,
		provider: provider,
		profile:  similarity.ProfileResolution(),
		negative: gocache.New(negativeCacheTTL, negativeCacheCleanup),
		metrics:  m,
		logger:   logging.ForService(serviceName),
	}
}

// Resolve returns the image id for the event and the updated event carrying
// that assignment. An empty id with a nil error means no image is available;
// the caller shows a placeholder. The input event is never mutated.
func (r *Resolver) Resolve(ctx context.Context, event Event) (string, Event, error) {
	// Step 1: an assigned image that is still cached wins outright.
	if event.AssignedImageID != "" {
		if record, ok := r.store.Get(event.AssignedImageID); ok && !record.IsExpired() {
			r.incrementCacheHits()
			return record.ID, event, nil
		}
	}
	r.incrementCacheMisses()

	titleWords := similarity.TitleWords(event.Title)
	candidates := r.store.FindCandidates(event.Title, event.Location)

	var best imagestore.ImageRecord
	bestScore := 0.0
	for i := range candidates {
		score := similarity.Score(&candidates[i], titleWords, event.Location, r.profile)
		if score > bestScore {
			best = candidates[i]
			bestScore = score
		}
	}

	// Step 2/3: a candidate above the auto-accept threshold is taken
	// without further checks.
	if bestScore >= r.profile.AutoAcceptThreshold {
		r.incrementSimilarityHits()
		r.logger.Debug("Auto-accepting candidate",
			"title", event.Title, "image_id", best.ID, "score", bestScore)
		event.AssignedImageID = best.ID
		return best.ID, event, nil
	}

	// Step 4: an exact title+location match is good even when the score
	// profile did not clear the bar.
	for i := range candidates {
		if exactMatch(&candidates[i], event) {
			r.incrementSimilarityHits()
			event.AssignedImageID = candidates[i].ID
			return candidates[i].ID, event, nil
		}
	}

	// Step 5: weak but nonzero similarity still beats a network fetch.
	if bestScore > r.profile.MinThreshold {
		r.incrementSimilarityHits()
		event.AssignedImageID = best.ID
		return best.ID, event, nil
	}

	// Step 6: fetch a new image.
	return r.fetchNew(ctx, event)
}

// exactMatch reports whether a candidate was cached for exactly this
// event's title and location, case-insensitively.
func exactMatch(record *imagestore.ImageRecord, event Event) bool {
	return strings.EqualFold(strings.TrimSpace(record.TitleQuery), strings.TrimSpace(event.Title)) &&
		strings.EqualFold(strings.TrimSpace(record.LocationQuery), strings.TrimSpace(event.Location))
}

// fetchNew submits a provider fetch through the queue. Concurrent
// resolutions for the same query attach to one fetch. Failures are
// negative-cached and reported as "no image", not as errors.
func (r *Resolver) fetchNew(ctx context.Context, event Event) (string, Event, error) {
	query := buildQuery(event)
	if query == "" {
		return "", event, nil
	}
	if _, found := r.negative.Get(query); found {
		r.logger.Debug("Query in negative cache, skipping fetch", "query", query)
		return "", event, nil
	}

	outcome := r.queue.Enqueue(query, func(workCtx context.Context) (any, error) {
		return r.fetchAndPersist(workCtx, event, query)
	})

	select {
	case <-ctx.Done():
		// The fetch keeps running; its result lands in the store for
		// the next resolution of this event.
		return "", event, ctx.Err()
	case result := <-outcome:
		if result.Err != nil {
			r.negative.SetDefault(query, struct{}{})
			r.incrementDownloadErrors()
			if !errors.Is(result.Err, photoprovider.ErrPhotoNotFound) {
				r.logger.Warn("Image fetch failed", "query", query, "error", result.Err)
			}
			return "", event, nil
		}
		record := result.Value.(imagestore.ImageRecord)
		event.AssignedImageID = record.ID
		return record.ID, event, nil
	}
}

// fetchAndPersist runs inside the queue: one provider round trip plus the
// store writes for the new record.
func (r *Resolver) fetchAndPersist(ctx context.Context, event Event, query string) (any, error) {
	start := time.Now()

	meta, err := r.provider.FetchRandomPhoto(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := r.provider.DownloadBytes(ctx, meta.FullURL)
	if err != nil {
		return nil, err
	}
	r.observeDownloadDuration(time.Since(start).Seconds())

	record := imagestore.ImageRecord{
		ID:                  uuid.NewString(),
		SourceID:            meta.SourceID,
		FullURL:             meta.FullURL,
		ThumbnailURL:        meta.ThumbnailURL,
		Author:              meta.Author,
		AuthorURL:           meta.AuthorURL,
		DownloadTrackingURL: meta.DownloadTrackingURL,
		CachedAt:            time.Now(),
		Tags:                meta.Tags,
		LocationQuery:       strings.TrimSpace(event.Location),
		TitleQuery:          strings.TrimSpace(event.Title),
	}

	if err := r.store.SaveImageData(record.ID, data); err != nil {
		return nil, err
	}
	if err := r.store.Put(record); err != nil {
		return nil, err
	}

	r.incrementImageDownloads()
	r.logger.Info("Cached new image",
		"query", query, "image_id", record.ID, "source_id", record.SourceID)
	return record, nil
}

// buildQuery derives the provider search query from the event.
func buildQuery(event Event) string {
	title := strings.ToLower(strings.TrimSpace(event.Title))
	location := strings.ToLower(strings.TrimSpace(event.Location))
	switch {
	case title != "" && location != "":
		return title + " " + location
	case title != "":
		return title
	default:
		return location
	}
}

func (r *Resolver) incrementCacheHits() {
	if r.metrics != nil {
		r.metrics.IncrementCacheHits()
	}
}

func (r *Resolver) incrementCacheMisses() {
	if r.metrics != nil {
		r.metrics.IncrementCacheMisses()
	}
}

func (r *Resolver) incrementSimilarityHits() {
	if r.metrics != nil {
		r.metrics.IncrementSimilarityHits()
	}
}

func (r *Resolver) incrementImageDownloads() {
	if r.metrics != nil {
		r.metrics.IncrementImageDownloads()
	}
}

func (r *Resolver) incrementDownloadErrors() {
	if r.metrics != nil {
		r.metrics.IncrementDownloadErrors()
	}
}

func (r *Resolver) observeDownloadDuration(seconds float64) {
	if r.metrics != nil {
		r.metrics.ObserveDownloadDuration(seconds)
	}
}

// package tasks implements the long-running pipeline operations: library
// import with concurrent augmentation, library embedding, and
// retrieval-augmented playlist generation.
//
// The core abstraction is LibraryEngine, which drives the per-track
// stages with bounded parallelism and per-track failure isolation.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/playlister/internal/library"
	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultChunkSize bounds how many tracks are augmented concurrently.
// Chunks run sequentially with a full join between them, so this is also
// the ceiling on simultaneous outstanding external calls.
const DefaultChunkSize = 50

// TrackStore defines the storage operations the engine depends on.
type TrackStore interface {
	Exists(platformTrackID string) (bool, error)
	Store(track *models.AugmentedLibraryTrack) error
	GetByPlatformID(platformTrackID string) (*models.AugmentedLibraryTrack, error)
	List() ([]*models.AugmentedLibraryTrack, error)
}

// Augmenter defines the per-track enrichment operation.
type Augmenter interface {
	Augment(ctx context.Context, track models.LibraryTrack) (*models.AugmentedLibraryTrack, error)
}

// ImportResult contains the per-outcome counts of a full import run.
type ImportResult struct {
	Total         int // Tracks in the library snapshot
	Skipped       int // Tracks already stored
	Augmented     int // Tracks stored with full augmentation
	Fallback      int // Tracks stored unaugmented after a recoverable failure
	StoreFailures int // Tracks whose storage write failed
}

// EngineOpts contains the collaborators and tuning for a LibraryEngine.
type EngineOpts struct {
	Library    library.Service
	Store      TrackStore
	Augmenter  Augmenter
	Index      services.VectorIndex
	Model      services.StructuredModel
	Automation services.PlaylistAutomation
	ChunkSize  int
	RateLimit  float64 // Augmentations per second; 0 disables the limiter
}

// LibraryEngine orchestrates the import, embed and generate operations.
type LibraryEngine struct {
	library    library.Service
	store      TrackStore
	augmenter  Augmenter
	index      services.VectorIndex
	model      services.StructuredModel
	automation services.PlaylistAutomation
	chunkSize  int
	limiter    *rate.Limiter
}

// NewLibraryEngine creates a LibraryEngine with the provided options.
func NewLibraryEngine(opts EngineOpts) *LibraryEngine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &LibraryEngine{
		library:    opts.Library,
		store:      opts.Store,
		augmenter:  opts.Augmenter,
		index:      opts.Index,
		model:      opts.Model,
		automation: opts.Automation,
		chunkSize:  opts.ChunkSize,
		limiter:    limiter,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Process imports the full library snapshot: every track is checked
// against storage, augmented when new, and stored either augmented or as
// its unaugmented base record. The batch never fails because one track
// failed.
//
// Tracks are processed in chunks of chunkSize; all tracks of a chunk run
// concurrently and the chunk is joined before the next one starts.
func (e *LibraryEngine) Process(ctx context.Context, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library source not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: track store not initialized", shared.ErrServiceUnavailable)
	}
	if e.augmenter == nil {
		return nil, fmt.Errorf("%w: augmenter not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err := e.library.GetTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	total := len(tracks)
	e.sendProgress(progress, parsedLibraryUpdate(total, e.library.Name()))

	result := &ImportResult{Total: total}
	var mu sync.Mutex

	for start := 0; start < total; start += e.chunkSize {
		end := start + e.chunkSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(track models.LibraryTrack, index int) {
				defer wg.Done()
				outcome := e.processTrack(ctx, track, index, total, progress)

				mu.Lock()
				switch outcome {
				case outcomeSkipped:
					result.Skipped++
				case outcomeAugmented:
					result.Augmented++
				case outcomeFallback:
					result.Fallback++
				case outcomeStoreFailed:
					result.StoreFailures++
				}
				mu.Unlock()
			}(tracks[i], i+1)
		}
		wg.Wait()
	}

	return result, nil
}

type trackOutcome int

const (
	outcomeSkipped trackOutcome = iota
	outcomeAugmented
	outcomeFallback
	outcomeStoreFailed
)

// processTrack runs the per-track pipeline: existence check, augmentation
// attempt, and a single storage write. Augmentation failure stores the
// base record instead of dropping the track.
func (e *LibraryEngine) processTrack(ctx context.Context, track models.LibraryTrack, index, total int, progress chan<- ProgressUpdate) trackOutcome {
	exists, err := e.store.Exists(track.PlatformTrackID)
	if err != nil {
		e.sendProgress(progress, trackErrorUpdate(index, total, track, err))
		return outcomeStoreFailed
	}
	if exists {
		e.sendProgress(progress, skippedUpdate(index, total, track))
		return outcomeSkipped
	}

	e.sendProgress(progress, augmentingUpdate(index, total, track))

	record := &models.AugmentedLibraryTrack{LibraryTrack: track}
	augmented := false

	if e.limiter == nil || e.limiter.Wait(ctx) == nil {
		if enriched, err := e.augmenter.Augment(ctx, track); err != nil {
			// Recoverable: keep the base record, lose only the enrichment.
			e.sendProgress(progress, trackErrorUpdate(index, total, track, err))
		} else {
			record = enriched
			augmented = true
		}
	}

	if err := e.store.Store(record); err != nil {
		e.sendProgress(progress, trackErrorUpdate(index, total, track, err))
		return outcomeStoreFailed
	}

	e.sendProgress(progress, storedUpdate(index, total, track, augmented))
	if augmented {
		return outcomeAugmented
	}
	return outcomeFallback
}

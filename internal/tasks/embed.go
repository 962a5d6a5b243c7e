package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlister/internal/formatter"
	"github.com/desertthunder/playlister/internal/shared"
)

// EmbedResult contains the counts of an embedding run.
type EmbedResult struct {
	Total    int
	Embedded int
	Failed   int
}

// EmbedLibrary upserts an embedding document for every stored track,
// keyed by platform track id so re-runs replace rather than duplicate.
// Tracks run sequentially; a per-track failure is reported and skipped.
func (e *LibraryEngine) EmbedLibrary(ctx context.Context, progress chan<- ProgressUpdate) (*EmbedResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: track store not initialized", shared.ErrServiceUnavailable)
	}
	if e.index == nil {
		return nil, fmt.Errorf("%w: vector index not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err := e.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}

	result := &EmbedResult{Total: len(tracks)}

	for i, track := range tracks {
		e.sendProgress(progress, embeddingUpdate(i+1, result.Total, track))

		content := formatter.EmbeddingContent(track)
		metadata := formatter.EmbeddingMetadata(track)

		if err := e.index.Upsert(ctx, track.PlatformTrackID, content, metadata); err != nil {
			e.sendProgress(progress, trackErrorUpdate(i+1, result.Total, track.LibraryTrack, err))
			result.Failed++
			continue
		}

		result.Embedded++
	}

	return result, nil
}

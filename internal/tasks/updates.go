package tasks

import (
	"fmt"

	"github.com/desertthunder/playlister/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ParseLibrary Phase = iota
	SkipTrack
	AugmentTrack
	StoreTrack
	TrackError
	EmbedTrack
	RetrieveTracks
	CurateTracks
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case ParseLibrary:
		return "parse_library"
	case SkipTrack:
		return "skip_track"
	case AugmentTrack:
		return "augment_track"
	case StoreTrack:
		return "store_track"
	case TrackError:
		return "track_error"
	case EmbedTrack:
		return "embed_track"
	case RetrieveTracks:
		return "retrieve_tracks"
	case CurateTracks:
		return "curate_tracks"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

func parsedLibraryUpdate(total int, source string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseLibrary,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Found %d tracks in %s library", total, source),
	}
}

func skippedUpdate(step, total int, track models.LibraryTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d Skipping %s: already exists", step, total, track.Describe()),
	}
}

func augmentingUpdate(step, total int, track models.LibraryTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AugmentTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d Augmenting %s...", step, total, track.Describe()),
	}
}

func storedUpdate(step, total int, track models.LibraryTrack, augmented bool) ProgressUpdate {
	state := "without augmentation"
	if augmented {
		state = "augmented"
	}
	return ProgressUpdate{
		Phase:   StoreTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d Stored %s (%s)", step, total, track.Describe(), state),
	}
}

func trackErrorUpdate(step, total int, track models.LibraryTrack, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackError,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d ✗ %s: %v", step, total, track.Describe(), err),
		Data:    err,
	}
}

func embeddingUpdate(step, total int, track *models.AugmentedLibraryTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EmbedTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%d/%d Embedding %s...", step, total, track.Describe()),
	}
}

func retrievingUpdate(k int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RetrieveTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Retrieving up to %d candidate tracks...", k),
	}
}

func curatingUpdate(candidates int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CurateTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Curating playlist from %d candidates...", candidates),
	}
}

func playlistCreatedUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (%d tracks)", name, count),
	}
}

package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/playlister/internal/formatter"
	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
)

const (
	// RetrievalLimit is how many nearest neighbors feed the curation step.
	RetrievalLimit = 1000

	// PlaylistLength is the track count requested from the model. The
	// schema constrains shape, not length, so the response is logged but
	// not rejected when the model miscounts.
	PlaylistLength = 20
)

// curationSchema constrains the model's response to an array of track ids.
var curationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"trackIds": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"required": ["trackIds"]
}`)

const curationSystemPrompt = `You are an expert DJ and music connoisseur. Your task is to generate playlists with twenty songs. You will be given a playlist name, a playlist description and a list of tracks. For each track, you'll get their mood, style, tempo, genre, year of release, and themes. You will need to generate a playlist with twenty tracks based on the name and description and the tracks provided. Your output should be a JSON array of track IDs.

# Steps:
1. Analyze the list of tracks provided.
2. Analyze the name and description provided by the user.
3. Look for tracks that can be a good fit for the playlist. Make sure to add variety to the playlist (example: different genres, different artists, different tempos, different years, etc.), unless the user specifies different requirements (example: "I want all tracks to be from the 80s").
4. Select twenty tracks for the playlist. All playlists must have twenty tracks.
5. Order the tracks in a way that is pleasing to the ear. Make sure the mood and the tempo of the playlist flows well.
6. Return a JSON array with the twenty track IDs of the tracks you chose. Do not return any other text.`

type curationSelection struct {
	TrackIDs []string `json:"trackIds"`
}

// GenerateWarnings carries the non-fatal issues of a generation run.
type GenerateWarnings struct {
	UnexpectedCount int      // Non-zero when the model returned a count other than PlaylistLength
	MissingIDs      []string // Selected ids that could not be hydrated from storage
	AutomationErr   error    // Playlist creation failure; the track list is still valid
}

// Generate turns a (name, prompt) request into an ordered playlist:
// retrieve a candidate pool by vector similarity, hydrate it from
// storage, have the model select and order the final set, and hand the
// selection to the playlist automation best-effort.
//
// The selector itself never reorders the model's output; diversity and
// flow are delegated entirely to the model.
func (e *LibraryEngine) Generate(ctx context.Context, req models.PlaylistRequest, progress chan<- ProgressUpdate) (*models.PlaylistResult, *GenerateWarnings, error) {
	if e.index == nil || e.model == nil {
		return nil, nil, fmt.Errorf("%w: vector index or model not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, nil, fmt.Errorf("%w: track store not initialized", shared.ErrServiceUnavailable)
	}
	if req.Prompt == "" {
		return nil, nil, fmt.Errorf("%w: playlist prompt required", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, retrievingUpdate(RetrievalLimit))

	hits, err := e.index.Query(ctx, req.Prompt, RetrievalLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieval failed: %w", err)
	}

	candidates, _ := e.hydrate(hits)
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("%w: no candidate tracks retrieved", shared.ErrTrackNotFound)
	}

	e.sendProgress(progress, curatingUpdate(len(candidates)))

	selection, err := e.curate(ctx, req, candidates)
	if err != nil {
		return nil, nil, err
	}

	warnings := &GenerateWarnings{}
	if len(selection.TrackIDs) != PlaylistLength {
		warnings.UnexpectedCount = len(selection.TrackIDs)
	}

	if e.automation != nil {
		if err := e.automation.CreatePlaylist(ctx, req.Name, selection.TrackIDs); err != nil {
			// Best effort: the returned track list stays valid.
			warnings.AutomationErr = err
		} else {
			e.sendProgress(progress, playlistCreatedUpdate(req.Name, len(selection.TrackIDs)))
		}
	}

	tracks := make([]*models.AugmentedLibraryTrack, 0, len(selection.TrackIDs))
	for _, id := range selection.TrackIDs {
		track, err := e.store.GetByPlatformID(id)
		if err != nil {
			warnings.MissingIDs = append(warnings.MissingIDs, id)
			continue
		}
		tracks = append(tracks, track)
	}

	result := &models.PlaylistResult{
		Request: req,
		Tracks:  tracks,
	}

	return result, warnings, nil
}

// hydrate resolves similarity hits into full records, preserving hit
// order and dropping ids that storage no longer knows.
func (e *LibraryEngine) hydrate(hits []services.SimilarityHit) ([]*models.AugmentedLibraryTrack, []string) {
	var tracks []*models.AugmentedLibraryTrack
	var missing []string

	for _, hit := range hits {
		track, err := e.store.GetByPlatformID(hit.ID)
		if err != nil {
			missing = append(missing, hit.ID)
			continue
		}
		tracks = append(tracks, track)
	}

	return tracks, missing
}

// curate submits the candidate cards and the request to the model under
// the fixed curation contract.
func (e *LibraryEngine) curate(ctx context.Context, req models.PlaylistRequest, candidates []*models.AugmentedLibraryTrack) (*curationSelection, error) {
	userPrompt := fmt.Sprintf("# Name: %s\n# Description:\n%s\n# Tracks\n%s",
		req.Name, req.Prompt, formatter.TrackCards(candidates))

	messages := []services.Message{
		{Role: "system", Content: curationSystemPrompt},
		{Role: "user", Content: userPrompt},
	}

	var selection curationSelection
	if err := e.model.Complete(ctx, messages, curationSchema, &selection); err != nil {
		return nil, fmt.Errorf("curation failed: %w", err)
	}

	return &selection, nil
}

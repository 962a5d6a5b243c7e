// package augment implements the per-track enrichment pipeline: resolve
// the track against the context source, aggregate evidence into a
// bundle, and extract normalized attributes through a schema-constrained
// model call.
package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/playlister/internal/formatter"
	"github.com/desertthunder/playlister/internal/fuzzy"
	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
)

// tempoSnippetCount bounds how many search snippets feed the BPM evidence.
const tempoSnippetCount = 2

// songInfoSchema is the fixed output contract handed to the model.
var songInfoSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"themes": {"type": "string"},
		"keywords": {"type": "string"},
		"mood": {"type": "string"},
		"bpm": {"type": "integer"},
		"style": {"type": "string"}
	},
	"required": ["themes", "keywords", "mood", "bpm", "style"]
}`)

const extractionInstructions = `Use the provided context to return a JSON with the following structure:
{"themes":"", "keywords":"", "mood":"", "bpm": 00, "style": ""}
Keywords and themes should be related to the song lyrics. Do not include the artist name or song title in the themes or keywords.
Do not generate any other text than the JSON.`

// Augmenter enriches a LibraryTrack with semantic attributes.
type Augmenter struct {
	resolver *fuzzy.Resolver
	source   services.ContextSource
	tempo    services.TempoHintSource
	model    services.StructuredModel
}

// NewAugmenter creates an Augmenter over the given collaborators.
func NewAugmenter(resolver *fuzzy.Resolver, source services.ContextSource, tempo services.TempoHintSource, model services.StructuredModel) *Augmenter {
	if resolver == nil {
		resolver = fuzzy.NewResolver()
	}

	return &Augmenter{
		resolver: resolver,
		source:   source,
		tempo:    tempo,
		model:    model,
	}
}

// Augment returns the track enriched with extracted attributes and the
// tempo label derived from BPM. Any resolution, aggregation or
// extraction failure is returned to the caller; the orchestrator decides
// the fallback.
func (a *Augmenter) Augment(ctx context.Context, track models.LibraryTrack) (*models.AugmentedLibraryTrack, error) {
	bundle, err := a.GatherContext(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("can't get context for %s: %w", track.Describe(), err)
	}

	info, err := a.Extract(ctx, bundle)
	if err != nil {
		return nil, err
	}

	tempo := BPMToTempo(info.BPM)
	return &models.AugmentedLibraryTrack{
		LibraryTrack: track,
		Themes:       &info.Themes,
		Keywords:     &info.Keywords,
		Mood:         &info.Mood,
		BPM:          &info.BPM,
		Tempo:        &tempo,
		Style:        &info.Style,
	}, nil
}

// GatherContext resolves the track and aggregates descriptive evidence
// into a bundle. Any sub-fetch failure fails the whole aggregation: a
// partial bundle is judged not worth enriching from.
func (a *Augmenter) GatherContext(ctx context.Context, track models.LibraryTrack) (models.ContextBundle, error) {
	candidates, err := a.source.Search(ctx, track.Title, track.Artist)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAggregation, err)
	}

	match, err := a.resolver.Resolve(track.Title, track.Artist, candidates)
	if err != nil {
		return nil, err
	}

	details, err := a.source.SongDetails(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAggregation, err)
	}

	lyrics, err := a.source.FetchText(ctx, details.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAggregation, err)
	}

	bpmHint, err := a.tempoHint(ctx, details.Title, details.Artist)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAggregation, err)
	}

	bundle := models.ContextBundle{}.
		Add("title", details.Title).
		Add("album", details.Album).
		Add("artist", details.Artist).
		Add("description", details.Description).
		Add("releaseDate", details.ReleaseDate).
		Add("lyrics", lyrics).
		Add("bpm", bpmHint)

	return bundle, nil
}

// tempoHint gathers numeric-tempo evidence as unstructured text by
// joining the top search snippets. Parsing the number is left to the
// extraction step.
func (a *Augmenter) tempoHint(ctx context.Context, title, artist string) (string, error) {
	query := fmt.Sprintf("BPM song %s by %s", title, artist)

	snippets, err := a.tempo.Search(ctx, query)
	if err != nil {
		return "", err
	}

	if len(snippets) > tempoSnippetCount {
		snippets = snippets[:tempoSnippetCount]
	}

	parts := make([]string, 0, len(snippets))
	for _, snippet := range snippets {
		parts = append(parts, snippet.Content)
	}

	return strings.Join(parts, "\n"), nil
}

// Extract runs the schema-constrained model call over the rendered
// bundle. Malformed model output is a hard failure for this track, not
// retried here.
func (a *Augmenter) Extract(ctx context.Context, bundle models.ContextBundle) (*models.SongInfo, error) {
	prompt := fmt.Sprintf("%s\n\n# Context\n%s", extractionInstructions, formatter.RenderContext(bundle))

	var info models.SongInfo
	messages := []services.Message{{Role: "user", Content: prompt}}
	if err := a.model.Complete(ctx, messages, songInfoSchema, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// BPMToTempo converts numeric BPM to the categorical tempo label. Pure
// and total: boundaries are inclusive-low/exclusive-high, so exactly 50
// maps to "slow".
func BPMToTempo(bpm int) string {
	switch {
	case bpm < 50:
		return "very slow"
	case bpm < 70:
		return "slow"
	case bpm < 100:
		return "moderate"
	case bpm < 120:
		return "fast"
	default:
		return "very fast"
	}
}

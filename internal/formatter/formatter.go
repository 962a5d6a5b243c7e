// package formatter renders pipeline data into the text forms consumed
// by the model and the vector index: context bundles, track attribute
// cards and embedding documents.
package formatter

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playlister/internal/models"
)

// RenderContext renders a context bundle as one labeled markdown section
// per source key.
func RenderContext(bundle models.ContextBundle) string {
	var sb strings.Builder
	for _, section := range bundle {
		fmt.Fprintf(&sb, "## %s\n%s\n", section.Name, section.Text)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// TrackCard renders a compact attribute card for one track. Absent
// fields are omitted entirely rather than rendered empty.
func TrackCard(track *models.AugmentedLibraryTrack) string {
	lines := []string{fmt.Sprintf("## Track ID: %s", track.PlatformTrackID)}

	if track.Mood != nil {
		lines = append(lines, "Mood: "+*track.Mood)
	}
	if track.Style != nil {
		lines = append(lines, "Style: "+*track.Style)
	}
	if track.Tempo != nil {
		if track.BPM != nil {
			lines = append(lines, fmt.Sprintf("Tempo: %s (%d BPM)", *track.Tempo, *track.BPM))
		} else {
			lines = append(lines, "Tempo: "+*track.Tempo)
		}
	}
	if track.Genre != "" {
		lines = append(lines, "Genre: "+track.Genre)
	}
	if track.Year != 0 {
		lines = append(lines, fmt.Sprintf("Year: %d", track.Year))
	}
	if track.Themes != nil {
		lines = append(lines, "Themes: "+*track.Themes)
	}

	return strings.Join(lines, "\n")
}

// TrackCards renders the full candidate set, one card per track.
func TrackCards(tracks []*models.AugmentedLibraryTrack) string {
	cards := make([]string, 0, len(tracks))
	for _, track := range tracks {
		cards = append(cards, TrackCard(track))
	}
	return strings.Join(cards, "\n")
}

// EmbeddingContent builds the document embedded for a track. Only the
// fields relevant to retrieval are included; absent fields are skipped.
func EmbeddingContent(track *models.AugmentedLibraryTrack) string {
	var lines []string

	if track.Themes != nil {
		lines = append(lines, "Themes: "+*track.Themes)
	}
	if track.Mood != nil {
		lines = append(lines, "Mood: "+*track.Mood)
	}
	if track.BPM != nil {
		lines = append(lines, fmt.Sprintf("BPM: %d", *track.BPM))
	}
	if track.Tempo != nil {
		lines = append(lines, "Tempo: "+*track.Tempo)
	}
	if track.Style != nil {
		lines = append(lines, "Style: "+*track.Style)
	}
	if track.Year != 0 {
		lines = append(lines, fmt.Sprintf("Year: %d", track.Year))
	}

	return strings.Join(lines, "\n")
}

// EmbeddingMetadata builds the metadata stored alongside a track's
// embedding.
func EmbeddingMetadata(track *models.AugmentedLibraryTrack) map[string]any {
	metadata := map[string]any{
		"platform_track_id": track.PlatformTrackID,
		"title":             track.Title,
		"artist":            track.Artist,
		"album":             track.Album,
	}
	if track.Genre != "" {
		metadata["genre"] = track.Genre
	}
	if track.Year != 0 {
		metadata["year"] = track.Year
	}
	return metadata
}

package models

import "fmt"

// LibraryTrack represents a track parsed from the source library file.
// Records are immutable once parsed; identity is PlatformTrackID.
type LibraryTrack struct {
	PlatformTrackID string `json:"platform_track_id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	Genre           string `json:"genre,omitempty"`
	Year            int    `json:"year,omitempty"`
	TotalTime       int    `json:"total_time,omitempty"` // Duration in seconds
	Location        string `json:"location"`
}

// AugmentedLibraryTrack is a LibraryTrack plus semantic attributes derived
// from external context. All augmentation fields are nil when augmentation
// partially or fully failed; the base record stays valid either way.
type AugmentedLibraryTrack struct {
	LibraryTrack
	Themes   *string `json:"themes,omitempty"`
	Keywords *string `json:"keywords,omitempty"`
	Mood     *string `json:"mood,omitempty"`
	BPM      *int    `json:"bpm,omitempty"`
	Tempo    *string `json:"tempo,omitempty"`
	Style    *string `json:"style,omitempty"`
}

// Augmented reports whether any semantic attribute was populated.
func (t *AugmentedLibraryTrack) Augmented() bool {
	return t.Themes != nil || t.Keywords != nil || t.Mood != nil ||
		t.BPM != nil || t.Tempo != nil || t.Style != nil
}

// SongInfo is the fixed schema extracted from a context bundle by the
// structured model. Tempo is derived from BPM after the model call.
type SongInfo struct {
	Themes   string `json:"themes"`
	Keywords string `json:"keywords"`
	Mood     string `json:"mood"`
	BPM      int    `json:"bpm"`
	Style    string `json:"style"`
}

// ContextSection is one labeled source of evidence inside a ContextBundle.
type ContextSection struct {
	Name string
	Text string
}

// ContextBundle is the ordered set of evidence gathered for a resolved
// track. It is ephemeral: rendered into a single extraction prompt and
// never persisted.
type ContextBundle []ContextSection

// Add appends a section to the bundle and returns the extended bundle.
func (b ContextBundle) Add(name, text string) ContextBundle {
	return append(b, ContextSection{Name: name, Text: text})
}

// MatchCandidate is a search hit from the external context source,
// compared against the query via fuzzy digests and never persisted.
type MatchCandidate struct {
	ID     string // Opaque external identifier
	Title  string
	Artist string
	Kind   string // Entity kind reported by the source, e.g. "song"
}

// PlaylistRequest is the user's input to playlist generation.
type PlaylistRequest struct {
	Name   string
	Prompt string
}

// PlaylistResult is the ordered outcome of playlist generation.
type PlaylistResult struct {
	Request PlaylistRequest
	Tracks  []*AugmentedLibraryTrack
}

// Describe returns the "title by artist" form used in logs and progress output.
func (t LibraryTrack) Describe() string {
	return fmt.Sprintf("%s by %s", t.Title, t.Artist)
}

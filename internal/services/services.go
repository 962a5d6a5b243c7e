// package services defines interfaces for the external collaborators of
// the augmentation and playlist pipeline
//
// Genius, SearxNG, Ollama, Chroma
package services

import (
	"context"
	"encoding/json"

	"github.com/desertthunder/playlister/internal/models"
)

// ContextSource defines the interface for the external record source used
// to resolve and describe a track (search hits, rich record, full text).
type ContextSource interface {
	// Search returns candidate hits for a (title, artist) query in
	// source-ranked order.
	Search(ctx context.Context, title, artist string) ([]models.MatchCandidate, error)

	// SongDetails fetches the rich record for a resolved candidate.
	SongDetails(ctx context.Context, candidateID string) (*SongDetails, error)

	// FetchText fetches the full-text field (lyrics) from a resolved
	// content URL with markup stripped and line breaks normalized.
	FetchText(ctx context.Context, url string) (string, error)

	// Name returns the name of the source (e.g., "Genius")
	Name() string
}

// SongDetails is the rich record returned by a context source.
type SongDetails struct {
	Title       string
	Album       string
	Artist      string
	Description string
	ReleaseDate string
	URL         string // Content URL for the full-text fetch
}

// TempoHintSource defines the interface for free-text web search used to
// gather numeric-tempo evidence. The evidence stays unparsed text; the
// structured extractor pulls the number out.
type TempoHintSource interface {
	Search(ctx context.Context, query string) ([]SearchSnippet, error)
}

// SearchSnippet is one result of a free-text web search.
type SearchSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Message is a single chat message sent to the structured model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StructuredModel defines the interface for schema-constrained model
// calls. Complete sends the messages with the given JSON schema as the
// output format and unmarshals the response into out; a response that
// does not conform fails with [shared.ErrSchemaValidation].
type StructuredModel interface {
	Complete(ctx context.Context, messages []Message, schema json.RawMessage, out any) error
}

// Embedder defines the interface for turning text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorIndex defines the interface for the vector store keyed by
// platform track id. Upserts are idempotent per id.
type VectorIndex interface {
	Upsert(ctx context.Context, id, document string, metadata map[string]any) error

	// Query returns up to k nearest neighbors for the query text.
	Query(ctx context.Context, text string, k int) ([]SimilarityHit, error)
}

// SimilarityHit is one nearest-neighbor result from the vector index.
type SimilarityHit struct {
	ID    string
	Score float64
}

// PlaylistAutomation defines the interface for creating a playlist in the
// host music application.
type PlaylistAutomation interface {
	CreatePlaylist(ctx context.Context, name string, trackIDs []string) error
}

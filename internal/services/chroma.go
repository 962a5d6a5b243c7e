// Chroma implementation of [VectorIndex]
//
// Talks to the Chroma REST API; embeddings are computed client-side
// through an [Embedder] so the index itself stays embedding-model
// agnostic.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/playlister/internal/shared"
)

const defaultChromaBaseURL = "http://localhost:8000"

// ChromaIndex implements VectorIndex against a Chroma server.
type ChromaIndex struct {
	baseURL    string
	collection string
	embedder   Embedder
	httpClient *http.Client

	mu           sync.Mutex
	collectionID string
}

// NewChromaIndex creates a Chroma client for the named collection. The
// collection is created on first use if it does not exist.
func NewChromaIndex(baseURL, collection string, embedder Embedder, client *http.Client) *ChromaIndex {
	if baseURL == "" {
		baseURL = defaultChromaBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ChromaIndex{
		baseURL:    baseURL,
		collection: collection,
		embedder:   embedder,
		httpClient: client,
	}
}

type chromaCollection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chromaUpsertRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float64      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
}

type chromaQueryRequest struct {
	QueryEmbeddings [][]float64 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type chromaQueryResponse struct {
	IDs       [][]string  `json:"ids"`
	Distances [][]float64 `json:"distances"`
}

// ensureCollection resolves the collection id, creating the collection if
// needed. Safe for concurrent callers within a chunk.
func (c *ChromaIndex) ensureCollection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	payload := map[string]any{
		"name":          c.collection,
		"get_or_create": true,
	}

	var collection chromaCollection
	if err := c.doRequest(ctx, "/api/v1/collections", payload, &collection); err != nil {
		return "", fmt.Errorf("failed to ensure collection %q: %w", c.collection, err)
	}

	c.collectionID = collection.ID
	return c.collectionID, nil
}

// Upsert embeds the document and writes it to the collection keyed by id.
// Re-upserting an existing id replaces its entry.
func (c *ChromaIndex) Upsert(ctx context.Context, id, document string, metadata map[string]any) error {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return err
	}

	embedding, err := c.embedder.Embed(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to embed document: %w", err)
	}

	request := chromaUpsertRequest{
		IDs:        []string{id},
		Embeddings: [][]float64{embedding},
		Documents:  []string{document},
	}
	if metadata != nil {
		request.Metadatas = []map[string]any{metadata}
	}

	endpoint := fmt.Sprintf("/api/v1/collections/%s/upsert", collectionID)
	return c.doRequest(ctx, endpoint, request, nil)
}

// Query embeds the query text and returns up to k nearest neighbors.
func (c *ChromaIndex) Query(ctx context.Context, text string, k int) ([]SimilarityHit, error) {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	request := chromaQueryRequest{
		QueryEmbeddings: [][]float64{embedding},
		NResults:        k,
		Include:         []string{"distances"},
	}

	var response chromaQueryResponse
	endpoint := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := c.doRequest(ctx, endpoint, request, &response); err != nil {
		return nil, err
	}

	if len(response.IDs) == 0 {
		return nil, nil
	}

	hits := make([]SimilarityHit, 0, len(response.IDs[0]))
	for i, id := range response.IDs[0] {
		hit := SimilarityHit{ID: id}
		if len(response.Distances) > 0 && i < len(response.Distances[0]) {
			hit.Score = response.Distances[0][i]
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// doRequest performs a JSON POST against the Chroma server.
func (c *ChromaIndex) doRequest(ctx context.Context, endpoint string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: chroma status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

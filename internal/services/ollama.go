// Ollama implementation of [StructuredModel] and [Embedder]
//
// Uses /api/chat with a JSON schema as the format constraint and
// /api/embed for embeddings. See https://github.com/ollama/ollama/blob/main/docs/api.md
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/playlister/internal/shared"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaService implements StructuredModel and Embedder against a local
// Ollama server.
type OllamaService struct {
	baseURL     string
	chatModel   string
	embedModel  string
	temperature float64
	httpClient  *http.Client
}

// NewOllamaService creates an Ollama client for the given server and models.
func NewOllamaService(baseURL, chatModel, embedModel string, temperature float64, client *http.Client) *OllamaService {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &OllamaService{
		baseURL:     baseURL,
		chatModel:   chatModel,
		embedModel:  embedModel,
		temperature: temperature,
		httpClient:  client,
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []Message       `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Complete sends the messages with the schema as the response format and
// unmarshals the model's reply into out. A reply that is not valid JSON
// for out fails with [shared.ErrSchemaValidation]; the call is not
// retried here.
func (o *OllamaService) Complete(ctx context.Context, messages []Message, schema json.RawMessage, out any) error {
	request := ollamaChatRequest{
		Model:    o.chatModel,
		Messages: messages,
		Stream:   false,
		Format:   schema,
		Options:  map[string]any{"temperature": o.temperature},
	}

	var response ollamaChatResponse
	if err := o.doRequest(ctx, "/api/chat", request, &response); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(response.Message.Content), out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSchemaValidation, err)
	}

	return nil
}

// Embed returns the embedding vector for the given text.
func (o *OllamaService) Embed(ctx context.Context, text string) ([]float64, error) {
	request := ollamaEmbedRequest{
		Model: o.embedModel,
		Input: text,
	}

	var response ollamaEmbedResponse
	if err := o.doRequest(ctx, "/api/embed", request, &response); err != nil {
		return nil, err
	}

	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embeddings", shared.ErrAPIRequest)
	}

	return response.Embeddings[0], nil
}

// doRequest performs a JSON POST against the Ollama server.
func (o *OllamaService) doRequest(ctx context.Context, endpoint string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: ollama status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

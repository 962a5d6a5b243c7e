// Genius API implementation of [ContextSource]
//
// Genius API response types based on https://docs.genius.com/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
	"golang.org/x/net/html"
	"golang.org/x/oauth2"
)

const defaultGeniusBaseURL = "https://api.genius.com"

type geniusMeta struct {
	Status int `json:"status"`
}

type geniusArtist struct {
	Name string `json:"name"`
}

type geniusAlbum struct {
	Name string `json:"name"`
}

type geniusDescription struct {
	Plain string `json:"plain"`
}

// GeniusSong represents a song record in Genius API responses.
type GeniusSong struct {
	ID            int                `json:"id"`
	Title         string             `json:"title"`
	URL           string             `json:"url"`
	ReleaseDate   string             `json:"release_date"`
	PrimaryArtist geniusArtist       `json:"primary_artist"`
	Album         *geniusAlbum       `json:"album"`
	Description   *geniusDescription `json:"description"`
}

// GeniusHit represents a single search hit.
type GeniusHit struct {
	Type   string     `json:"type"`
	Result GeniusSong `json:"result"`
}

type geniusSearchResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Hits []GeniusHit `json:"hits"`
	} `json:"response"`
}

type geniusSongResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Song GeniusSong `json:"song"`
	} `json:"response"`
}

// GeniusService implements ContextSource against the Genius REST API.
type GeniusService struct {
	baseURL    string
	httpClient *http.Client
	pageClient *http.Client
}

// NewGeniusService creates a Genius client authenticated with the given
// access token via a static [oauth2] token source.
func NewGeniusService(token, baseURL string) *GeniusService {
	if baseURL == "" {
		baseURL = defaultGeniusBaseURL
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	return &GeniusService{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(context.Background(), source),
		pageClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (g *GeniusService) Name() string {
	return "Genius"
}

// SetHTTPClients overrides the API and page clients. Used in tests.
func (g *GeniusService) SetHTTPClients(api, page *http.Client) {
	if api != nil {
		g.httpClient = api
	}
	if page != nil {
		g.pageClient = page
	}
}

// doRequest performs an authenticated GET against the Genius API.
func (g *GeniusService) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := g.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: genius API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Search queries Genius for the track and returns hits in source order.
func (g *GeniusService) Search(ctx context.Context, title, artist string) ([]models.MatchCandidate, error) {
	query := url.QueryEscape(fmt.Sprintf("%s %s", title, artist))

	var response geniusSearchResponse
	if err := g.doRequest(ctx, "/search?q="+query, &response); err != nil {
		return nil, err
	}

	if response.Meta.Status != 0 && response.Meta.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: genius search returned status %d", shared.ErrAPIRequest, response.Meta.Status)
	}

	candidates := make([]models.MatchCandidate, 0, len(response.Response.Hits))
	for _, hit := range response.Response.Hits {
		candidates = append(candidates, models.MatchCandidate{
			ID:     strconv.Itoa(hit.Result.ID),
			Title:  hit.Result.Title,
			Artist: hit.Result.PrimaryArtist.Name,
			Kind:   hit.Type,
		})
	}

	return candidates, nil
}

// SongDetails fetches the rich record for a song id with plain-text
// formatting requested for the description.
func (g *GeniusService) SongDetails(ctx context.Context, candidateID string) (*SongDetails, error) {
	endpoint := fmt.Sprintf("/songs/%s?text_format=plain", url.PathEscape(candidateID))

	var response geniusSongResponse
	if err := g.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	song := response.Response.Song
	details := &SongDetails{
		Title:       song.Title,
		Artist:      song.PrimaryArtist.Name,
		ReleaseDate: song.ReleaseDate,
		URL:         song.URL,
	}
	if song.Album != nil {
		details.Album = song.Album.Name
	}
	if song.Description != nil {
		details.Description = song.Description.Plain
	}

	return details, nil
}

// FetchText downloads the song page and extracts the lyrics containers
// with markup stripped and <br> elements turned into line breaks.
func (g *GeniusService) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: song page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read song page: %w", err)
	}

	return ExtractLyrics(string(body))
}

// ExtractLyrics pulls the text of every element carrying the
// data-lyrics-container attribute out of a song page.
func ExtractLyrics(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse song page: %w", err)
	}

	var sections []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasLyricsAttr(n) {
			var sb strings.Builder
			collectText(n, &sb)
			if text := strings.TrimSpace(sb.String()); text != "" {
				sections = append(sections, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(sections) == 0 {
		return "", fmt.Errorf("no lyrics container found in song page")
	}

	return normalizeLineBreaks(strings.Join(sections, "\n")), nil
}

func hasLyricsAttr(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "data-lyrics-container" {
			return true
		}
	}
	return false
}

// collectText renders the text content of a node, turning <br> into
// newlines and dropping every other tag.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		sb.WriteString("\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// normalizeLineBreaks collapses runs of three or more newlines.
func normalizeLineBreaks(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

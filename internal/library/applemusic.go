// Apple Music XML library implementation of [Service]
//
// The file is a property list produced by Music > Library > Export
// Library... with a top-level dict holding a "Tracks" dict of per-track
// dicts.
package library

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/playlister/internal/models"
)

// AppleMusicLibrary implements Service for Apple Music XML exports.
type AppleMusicLibrary struct {
	path string
}

// NewAppleMusicLibrary creates a library source reading from the XML export at path.
func NewAppleMusicLibrary(path string) *AppleMusicLibrary {
	return &AppleMusicLibrary{path: path}
}

// Name returns the source name.
func (l *AppleMusicLibrary) Name() string {
	return "Apple Music"
}

// GetTracks parses the XML export and returns every audio track that has
// a file location. Non-audio entries (videos, PDFs) are skipped.
func (l *AppleMusicLibrary) GetTracks() ([]models.LibraryTrack, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	return ParseLibraryXML(data)
}

// ParseLibraryXML extracts tracks from the raw bytes of an Apple Music
// library export.
func ParseLibraryXML(data []byte) ([]models.LibraryTrack, error) {
	root, err := parsePlist(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse library plist: %w", err)
	}

	top, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected plist root type %T", root)
	}

	rawTracks, ok := top["Tracks"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("library plist has no Tracks dict")
	}

	// Walk entries in track-id order so output is stable across runs.
	ids := make([]string, 0, len(rawTracks))
	for id := range rawTracks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})

	var tracks []models.LibraryTrack
	for _, id := range ids {
		entry, ok := rawTracks[id].(map[string]any)
		if !ok {
			continue
		}

		kind, _ := entry["Kind"].(string)
		if !strings.Contains(kind, "audio") {
			continue
		}

		track := models.LibraryTrack{
			PlatformTrackID: stringValue(entry, "Persistent ID"),
			Title:           stringValue(entry, "Name"),
			Artist:          stringValue(entry, "Artist"),
			Album:           stringValue(entry, "Album"),
			Genre:           stringValue(entry, "Genre"),
			Year:            intValue(entry, "Year"),
			Location:        locationPath(stringValue(entry, "Location")),
		}

		// Total Time is reported in milliseconds.
		if ms := intValue(entry, "Total Time"); ms > 0 {
			track.TotalTime = ms / 1000
		}

		if track.Location != "" {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

func stringValue(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

func intValue(entry map[string]any, key string) int {
	n, _ := entry[key].(int)
	return n
}

// locationPath converts a file:// URL into a decoded filesystem path.
func locationPath(loc string) string {
	if loc == "" {
		return ""
	}
	trimmed := strings.TrimPrefix(loc, "file://")
	if decoded, err := url.PathUnescape(trimmed); err == nil {
		return decoded
	}
	return trimmed
}

// parsePlist decodes the subset of the plist format that library exports
// use: dict, array, string, integer, real, date, true and false.
func parsePlist(data []byte) (any, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	// Library exports are not strict XML (the DOCTYPE references an
	// external DTD); tolerate unknown entities.
	decoder.Strict = false

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local == "plist" {
				continue
			}
			return parsePlistValue(decoder, start)
		}
	}
}

func parsePlistValue(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	switch start.Name.Local {
	case "dict":
		return parsePlistDict(decoder)
	case "array":
		return parsePlistArray(decoder)
	case "string", "data", "date":
		return elementText(decoder, start)
	case "integer":
		text, err := elementText(decoder, start)
		if err != nil {
			return nil, err
		}
		return strconv.Atoi(strings.TrimSpace(text))
	case "real":
		text, err := elementText(decoder, start)
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(strings.TrimSpace(text), 64)
	case "true":
		return true, decoder.Skip()
	case "false":
		return false, decoder.Skip()
	default:
		return nil, decoder.Skip()
	}
}

func parsePlistDict(decoder *xml.Decoder) (map[string]any, error) {
	dict := make(map[string]any)
	var key string
	haveKey := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "key" {
				key, err = elementText(decoder, t)
				if err != nil {
					return nil, err
				}
				haveKey = true
				continue
			}

			value, err := parsePlistValue(decoder, t)
			if err != nil {
				return nil, err
			}
			if haveKey {
				dict[key] = value
				haveKey = false
			}
		case xml.EndElement:
			return dict, nil
		}
	}
}

func parsePlistArray(decoder *xml.Decoder) ([]any, error) {
	var values []any

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			value, err := parsePlistValue(decoder, t)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		case xml.EndElement:
			return values, nil
		}
	}
}

func elementText(decoder *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return sb.String(), nil
			}
		}
	}
}

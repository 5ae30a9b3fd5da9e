package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotJSON is returned by ParseResponse when the body cannot be decoded as
// JSON at all.
var ErrNotJSON = errors.New("response body is not JSON")

// GenerateResponse is the body returned by the generate endpoint on success.
// PDF and JSON are kept as optional raw values so "absent" and "empty" stay
// distinguishable. An explicit "pdf": null is treated the same as a missing
// pdf key and nothing is written for it.
type GenerateResponse struct {
	Status string          `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
	PDF    *string         `json:"pdf,omitempty"`
	JSON   json.RawMessage `json:"json,omitempty"`
}

// HasJSON reports whether the json key was present, including an explicit null.
func (r *GenerateResponse) HasJSON() bool {
	return len(r.JSON) > 0
}

var jsonNull = []byte("null")

// ParseResponse decodes a generate response body. A body that is not JSON
// yields an error wrapping ErrNotJSON. Valid JSON that is not an object, or an
// object whose pdf is not a string, yields a plain error.
func ParseResponse(body []byte) (*GenerateResponse, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("generate response is a JSON %s, not an object", jsonKind(doc))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error decoding generate response: %w", err)
	}

	resp := &GenerateResponse{JSON: raw["json"]}
	if s, ok := fields["status"].(string); ok {
		resp.Status = s
	}
	if s, ok := fields["error"].(string); ok {
		resp.Error = s
	}
	if pdf, ok := raw["pdf"]; ok && !bytes.Equal(bytes.TrimSpace(pdf), jsonNull) {
		var s string
		if err := json.Unmarshal(pdf, &s); err != nil {
			return nil, fmt.Errorf("pdf is a JSON %s, not a base64 string", jsonKind(fields["pdf"]))
		}
		resp.PDF = &s
	}
	return resp, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return "object"
	}
}

// Source is a web source cited by a slide.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// SlideRecord is one exported slide in ProjectData.
type SlideRecord struct {
	SlideIndex  int      `json:"slideIndex"`
	Title       string   `json:"title"`
	Findings    string   `json:"findings"`
	SpeakerNote string   `json:"speakerNote"`
	Sources     []Source `json:"sources"`
}

// ProjectData is the document the service returns under the json key.
type ProjectData struct {
	OriginalQuery string        `json:"originalQuery"`
	ExportedAt    string        `json:"exportedAt"`
	Slides        []SlideRecord `json:"slides"`
}

// SlideSummary is the part of the json document the client reports on. Title
// is a pointer because the service may omit it.
type SlideSummary struct {
	Slides []struct {
		Title *string `json:"title"`
	} `json:"slides"`
}

// Summarize extracts the slide count and first-slide title from a raw json
// document. A null document summarizes to zero slides.
func Summarize(raw json.RawMessage) (*SlideSummary, error) {
	var summary SlideSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("error reading slides: %w", err)
	}
	return &summary, nil
}

// FirstTitle returns the first slide's title, or placeholder when the deck is
// empty or the title is missing.
func (s *SlideSummary) FirstTitle(placeholder string) string {
	if len(s.Slides) == 0 || s.Slides[0].Title == nil {
		return placeholder
	}
	return *s.Slides[0].Title
}

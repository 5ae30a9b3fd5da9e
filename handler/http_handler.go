package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

const (
	stubSpeakerNote = "Generated script..."
	noFindings      = "No findings provided."
	noInput         = "No input provided."
)

// StubHandler is a stand-in for the generate service. It answers with the same
// shapes the real service does but renders slides without any model calls.
type StubHandler struct {
	router  chi.Router
	Timeout time.Duration
	now     func() time.Time
}

// NewStubHandler creates a new instance of StubHandler
func NewStubHandler() *StubHandler {
	h := &StubHandler{
		Timeout: 99 * time.Second,
		now:     time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequest)
	r.Use(middleware.Timeout(h.Timeout))

	r.Get("/", h.handleAgentCard)
	r.Get("/.well-known/agent-card.json", h.handleAgentCard)
	r.Post("/generate", h.handleGenerate)

	h.router = r
	return h
}

// ServeHTTP implements the http.Handler interface for StubHandler.
func (h *StubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *StubHandler) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AgentCard{
		Name:         "StorySlide Stub Agent",
		Description:  "Local stand-in for the slide generation agent. Renders one plain page per slide.",
		Version:      "1.0.0",
		Type:         "purple",
		Capabilities: []string{"generation"},
		Skills:       []string{},
		Endpoints:    map[string]string{"generate": "/generate"},
	})
}

func (h *StubHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req RequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logAndReturnError(w, "Bad Request: invalid JSON", http.StatusBadRequest, fmt.Sprintf("Bad Request: invalid JSON: %v", err))
		return
	}

	input := req.Input
	if input != nil && input.researchOnly() {
		log.Infof("Deep research requested for query %q", input.Query)
		input.Title = strings.ToUpper(input.Query)
		input.Slides = []payload.Slide{{
			Title:    input.Query,
			Findings: fmt.Sprintf("Stub findings for %q.", input.Query),
		}}
	}

	// An empty slides array is a valid, empty deck.
	if input == nil || input.Slides == nil {
		logAndReturnError(w, "Invalid input: research_data.slides (or query) missing", http.StatusBadRequest)
		return
	}

	log.Debugf("Generating %d slides for %q", len(input.Slides), input.Title)

	pdfBytes := renderDeck(input.Title, input.Slides)

	writeJSON(w, http.StatusOK, struct {
		Status string              `json:"status"`
		PDF    string              `json:"pdf"`
		JSON   payload.ProjectData `json:"json"`
	}{
		Status: "success",
		PDF:    base64.StdEncoding.EncodeToString(pdfBytes),
		JSON:   h.projectData(input),
	})
}

func (h *StubHandler) projectData(input *GenerateInput) payload.ProjectData {
	data := payload.ProjectData{
		OriginalQuery: input.Title,
		ExportedAt:    h.now().UTC().Format(time.RFC3339Nano),
		Slides:        make([]payload.SlideRecord, 0, len(input.Slides)),
	}
	if data.OriginalQuery == "" {
		data.OriginalQuery = noInput
	}
	for i, s := range input.Slides {
		findings := s.Findings
		if findings == "" {
			findings = noFindings
		}
		data.Slides = append(data.Slides, payload.SlideRecord{
			SlideIndex:  i + 1,
			Title:       s.Title,
			Findings:    findings,
			SpeakerNote: stubSpeakerNote,
			Sources:     []payload.Source{},
		})
	}
	return data
}

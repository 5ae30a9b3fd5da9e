package smoke

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/artifacts"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/backend"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/config"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// mockService answers every request with the given status and body and records
// the last request body it saw.
type mockService struct {
	*httptest.Server
	mu       sync.Mutex
	lastBody []byte
}

func (m *mockService) body() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody
}

func newMockService(t *testing.T, status int, body string) *mockService {
	t.Helper()
	m := &mockService{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		m.mu.Lock()
		m.lastBody = buf.Bytes()
		m.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(m.Close)
	return m
}

func newTestRunner(t *testing.T, url string, fs afero.Fs) (*Runner, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	client := backend.NewBackendClient(url+"/generate", 5*time.Second)
	return NewRunner(client, fs, out, "."), out
}

func assertNoFiles(t *testing.T, fs afero.Fs) {
	t.Helper()
	for _, name := range []string{artifacts.ResearchPDF, artifacts.ResearchJSON} {
		_, ok := artifacts.Stat(fs, name)
		assert.False(t, ok, "%s should not exist", name)
	}
}

func TestResearchJSONOnly(t *testing.T) {
	svc := newMockService(t, http.StatusOK, `{"json": {"slides": [{"title": "Intro"}]}}`)
	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, svc.URL, fs)

	outcome := r.Research(context.Background(), "The History of Espresso Machines")
	assert.Equal(t, Success, outcome)
	assert.Equal(t, 0, outcome.ExitCode())

	assert.JSONEq(t, `{"input": {"query": "The History of Espresso Machines"}}`, string(svc.body()))
	assert.Contains(t, out.String(), "Sending Deep Research request to "+svc.URL+"/generate...")
	assert.Contains(t, out.String(), "Status Code: 200")
	assert.Contains(t, out.String(), "Slides Generated: 1")
	assert.Contains(t, out.String(), "First Slide Title: Intro")
	assert.NotContains(t, out.String(), "PDF generated")

	written, err := afero.ReadFile(fs, artifacts.ResearchJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"slides": [{"title": "Intro"}]}`, string(written))

	_, ok := artifacts.Stat(fs, artifacts.ResearchPDF)
	assert.False(t, ok)
}

func TestResearchPDFRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}, 100)
	b64 := base64.StdEncoding.EncodeToString(raw)
	svc := newMockService(t, http.StatusOK, fmt.Sprintf(`{"status":"success","pdf":%q}`, b64))
	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, svc.URL, fs)

	assert.Equal(t, Success, r.Research(context.Background(), "q"))

	size, ok := artifacts.Stat(fs, artifacts.ResearchPDF)
	require.True(t, ok)
	assert.EqualValues(t, len(raw), size)
	assert.Contains(t, out.String(), fmt.Sprintf("Success! PDF generated. Size: %d chars", len(b64)))
	assert.Contains(t, out.String(), fmt.Sprintf("Saved research_output.pdf (%d bytes)", len(raw)))
	assert.NotContains(t, out.String(), "PDF pages")

	_, ok = artifacts.Stat(fs, artifacts.ResearchJSON)
	assert.False(t, ok)
}

func TestResearchSlideSummaries(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount string
		wantTitle string
	}{
		{"empty slides", `{"json":{"slides":[]}}`, "Slides Generated: 0", ""},
		{"no slides key", `{"json":{"originalQuery":"q"}}`, "Slides Generated: 0", ""},
		{"missing title", `{"json":{"slides":[{"findings":"f"}]}}`, "Slides Generated: 1", "First Slide Title: Unknown"},
		{"two slides", `{"json":{"slides":[{"title":"A"},{"title":"B"}]}}`, "Slides Generated: 2", "First Slide Title: A"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMockService(t, http.StatusOK, tc.body)
			r, out := newTestRunner(t, svc.URL, afero.NewMemMapFs())

			assert.Equal(t, Success, r.Research(context.Background(), "q"))
			assert.Contains(t, out.String(), tc.wantCount)
			if tc.wantTitle == "" {
				assert.NotContains(t, out.String(), "First Slide Title")
			} else {
				assert.Contains(t, out.String(), tc.wantTitle)
			}
		})
	}
}

func TestResearchNon200(t *testing.T) {
	svc := newMockService(t, http.StatusInternalServerError, "internal error")
	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, svc.URL, fs)

	outcome := r.Research(context.Background(), "q")
	assert.Equal(t, RequestFailed, outcome)
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Contains(t, out.String(), "Status Code: 500")
	assert.Contains(t, out.String(), "Request failed: internal error")
	assertNoFiles(t, fs)
}

func TestResearchMalformedJSON(t *testing.T) {
	body := "<html>" + strings.Repeat("x", 500) + "</html>"
	svc := newMockService(t, http.StatusOK, body)
	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, svc.URL, fs)

	outcome := r.Research(context.Background(), "q")
	assert.Equal(t, MalformedResponse, outcome)
	assert.Equal(t, 1, outcome.ExitCode())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	last := lines[len(lines)-1]
	require.True(t, strings.HasPrefix(last, "Failed to decode JSON. Raw response: "))
	shown := strings.TrimPrefix(last, "Failed to decode JSON. Raw response: ")
	assert.Len(t, shown, 200)
	assert.Equal(t, body[:200], shown)
	assertNoFiles(t, fs)
}

func TestResearchWellFormedButUnexpectedJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `[1,2,3]`},
		{"string", `"ok"`},
		{"null", `null`},
		{"numeric pdf", `{"pdf":123,"json":{"slides":[{"title":"Intro"}]}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMockService(t, http.StatusOK, tc.body)
			fs := afero.NewMemMapFs()
			r, out := newTestRunner(t, svc.URL, fs)

			outcome := r.Research(context.Background(), "q")
			assert.Equal(t, UnexpectedResponse, outcome)
			assert.Equal(t, 0, outcome.ExitCode())
			assert.Contains(t, out.String(), "Request successful.")
			assert.Contains(t, out.String(), "Error: ")
			assert.NotContains(t, out.String(), "Failed to decode JSON")
			assert.NotContains(t, out.String(), "Slides Generated")
			assertNoFiles(t, fs)
		})
	}
}

func TestResearchTransportError(t *testing.T) {
	svc := httptest.NewServer(http.NotFoundHandler())
	url := svc.URL
	svc.Close()

	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, url, fs)

	outcome := r.Research(context.Background(), "q")
	assert.Equal(t, TransportError, outcome)
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Contains(t, out.String(), "Error: ")
	assert.NotContains(t, out.String(), "Status Code")
	assertNoFiles(t, fs)
}

func TestResearchWriteFailuresDoNotAbort(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("pdf bytes"))
	svc := newMockService(t, http.StatusOK, fmt.Sprintf(`{"pdf":%q,"json":{"slides":[{"title":"Intro"}]}}`, b64))
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	r, out := newTestRunner(t, svc.URL, fs)

	assert.Equal(t, Success, r.Research(context.Background(), "q"))
	assert.Contains(t, out.String(), "Error saving PDF: ")
	assert.Contains(t, out.String(), "Error saving JSON: ")
	assert.Contains(t, out.String(), "Slides Generated: 1")
	assert.Contains(t, out.String(), "First Slide Title: Intro")
}

func TestResearchBadBase64(t *testing.T) {
	svc := newMockService(t, http.StatusOK, `{"pdf":"%%%","json":{"slides":[]}}`)
	fs := afero.NewMemMapFs()
	r, out := newTestRunner(t, svc.URL, fs)

	assert.Equal(t, Success, r.Research(context.Background(), "q"))
	assert.Contains(t, out.String(), "Error saving PDF: ")
	assert.Contains(t, out.String(), "Saved research_output.json")
	_, ok := artifacts.Stat(fs, artifacts.ResearchPDF)
	assert.False(t, ok)
}

func TestDeckProbe(t *testing.T) {
	svc := newMockService(t, http.StatusOK, `{"status":"success"}`)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, artifacts.DebugPDF, []byte("12345"), 0o644))
	r, out := newTestRunner(t, svc.URL, fs)

	deck := payload.Deck{Title: "Standalone Test", Slides: []payload.Slide{{Title: "Debug Slide", Findings: "f"}}}
	assert.Equal(t, Success, r.Deck(context.Background(), deck))

	var sent payload.Request
	require.NoError(t, json.Unmarshal(svc.body(), &sent))
	assert.Equal(t, map[string]any{
		"title":  "Standalone Test",
		"slides": []any{map[string]any{"title": "Debug Slide", "findings": "f"}},
	}, sent.Input)

	assert.Contains(t, out.String(), `Response Body: {"status":"success"}...`)
	assert.Contains(t, out.String(), "Request successful.")
	assert.Contains(t, out.String(), "Found debug_output.pdf (Size: 5 bytes)")
	assert.Contains(t, out.String(), "debug_output.json NOT found.")

	_, ok := artifacts.Stat(fs, artifacts.DebugJSON)
	assert.False(t, ok, "deck mode must not write artifacts")
}

func TestDeckTransportError(t *testing.T) {
	svc := httptest.NewServer(http.NotFoundHandler())
	url := svc.URL
	svc.Close()

	r, out := newTestRunner(t, url, afero.NewMemMapFs())

	outcome := r.Deck(context.Background(), payload.Deck{Title: "t"})
	assert.Equal(t, TransportError, outcome)
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Contains(t, out.String(), "Sending request to")
	assert.Contains(t, out.String(), "Error: ")
	assert.NotContains(t, out.String(), "Status Code")
	assert.NotContains(t, out.String(), "debug_output")
}

func TestDeckProbeNon200(t *testing.T) {
	svc := newMockService(t, http.StatusBadRequest, `{"error":"Invalid input"}`)
	r, out := newTestRunner(t, svc.URL, afero.NewMemMapFs())

	assert.Equal(t, RequestFailed, r.Deck(context.Background(), payload.Deck{}))
	assert.Contains(t, out.String(), "Status Code: 400")
	assert.Contains(t, out.String(), "Request failed.")
	assert.NotContains(t, out.String(), "debug_output")
}

func TestRunDispatchesOnMode(t *testing.T) {
	svc := newMockService(t, http.StatusOK, `{"json":{"slides":[]}}`)
	r, out := newTestRunner(t, svc.URL, afero.NewMemMapFs())

	cfg := &config.Config{Mode: config.ModeDeck, Deck: payload.Deck{Title: "t"}}
	assert.Equal(t, Success, r.Run(context.Background(), cfg))
	assert.Contains(t, out.String(), "Sending request to")

	out.Reset()
	cfg = &config.Config{Mode: config.ModeResearch, Query: "q"}
	assert.Equal(t, Success, r.Run(context.Background(), cfg))
	assert.Contains(t, out.String(), "Sending Deep Research request to")
}

func TestOutputDirIsHonoured(t *testing.T) {
	svc := newMockService(t, http.StatusOK, `{"json":{"slides":[]}}`)
	fs := afero.NewMemMapFs()
	client := backend.NewBackendClient(svc.URL, time.Second)
	r := NewRunner(client, fs, new(bytes.Buffer), "runs/today")

	assert.Equal(t, Success, r.Research(context.Background(), "q"))
	_, ok := artifacts.Stat(fs, "runs/today/"+artifacts.ResearchJSON)
	assert.True(t, ok)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt([]byte("short")))
	long := strings.Repeat("é", 300)
	assert.Equal(t, strings.Repeat("é", 200), excerpt([]byte(long)))
}

package smoke

import (
	"context"
	"errors"
	"net/http"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/artifacts"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// Research sends a query-only request, which puts the service in deep research
// mode, and saves the returned PDF and JSON as research_output.*.
func (r *Runner) Research(ctx context.Context, query string) Outcome {
	r.println("Sending Deep Research request to %s...", r.client.Endpoint())

	res, err := r.client.Generate(ctx, payload.NewResearchRequest(query))
	if err != nil {
		r.println("Error: %v", err)
		return TransportError
	}
	r.println("Status Code: %d", res.StatusCode)

	if res.StatusCode != http.StatusOK {
		r.println("Request failed: %s", res.Body)
		return RequestFailed
	}
	r.println("Request successful.")

	resp, err := payload.ParseResponse(res.Body)
	if errors.Is(err, payload.ErrNotJSON) {
		log.WithError(err).Debug("Undecodable generate response")
		r.println("Failed to decode JSON. Raw response: %s", excerpt(res.Body))
		return MalformedResponse
	}
	if err != nil {
		r.println("Error: %v", err)
		return UnexpectedResponse
	}

	if resp.PDF != nil {
		r.savePDF(*resp.PDF)
	}
	if resp.HasJSON() {
		r.saveJSON(resp)
	}
	return Success
}

// savePDF reports and persists the pdf payload. Failures are printed and do not
// stop the JSON artifact from being handled.
func (r *Runner) savePDF(b64 string) {
	r.println("Success! PDF generated. Size: %d chars", len(b64))

	path := r.path(artifacts.ResearchPDF)
	n, err := artifacts.SavePDF(r.fs, path, b64)
	if err != nil {
		r.println("Error saving PDF: %v", err)
		return
	}

	size, _ := artifacts.Stat(r.fs, path)
	r.println("Saved %s (%d bytes)", artifacts.ResearchPDF, size)
	if size != int64(n) {
		log.Warnf("%s is %d bytes on disk but %d bytes were decoded", path, size, n)
	}

	pages, err := artifacts.InspectPDF(r.fs, path)
	if err != nil {
		log.WithError(err).Debug("Could not inspect saved PDF")
		return
	}
	r.println("PDF pages: %d", pages)
}

func (r *Runner) saveJSON(resp *payload.GenerateResponse) {
	r.println("Success! JSON data returned.")

	if err := artifacts.SaveJSON(r.fs, r.path(artifacts.ResearchJSON), resp.JSON); err != nil {
		r.println("Error saving JSON: %v", err)
	} else {
		r.println("Saved %s", artifacts.ResearchJSON)
	}

	summary, err := payload.Summarize(resp.JSON)
	if err != nil {
		r.println("Error: %v", err)
		return
	}
	r.println("Slides Generated: %d", len(summary.Slides))
	if len(summary.Slides) > 0 {
		r.println("First Slide Title: %s", summary.FirstTitle(UnknownTitle))
	}
}

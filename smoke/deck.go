package smoke

import (
	"context"
	"net/http"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/artifacts"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// Deck sends a structured deck and then checks whether the debug artifacts
// exist in the output directory. It never writes them.
func (r *Runner) Deck(ctx context.Context, deck payload.Deck) Outcome {
	r.println("Sending request to %s...", r.client.Endpoint())

	res, err := r.client.Generate(ctx, payload.NewDeckRequest(deck))
	if err != nil {
		r.println("Error: %v", err)
		return TransportError
	}
	r.println("Status Code: %d", res.StatusCode)
	r.println("Response Body: %s...", excerpt(res.Body))

	if res.StatusCode != http.StatusOK {
		r.println("Request failed.")
		return RequestFailed
	}
	r.println("Request successful.")

	for _, name := range []string{artifacts.DebugPDF, artifacts.DebugJSON} {
		if size, ok := artifacts.Stat(r.fs, r.path(name)); ok {
			r.println("Found %s (Size: %d bytes)", name, size)
		} else {
			r.println("%s NOT found.", name)
		}
	}
	return Success
}

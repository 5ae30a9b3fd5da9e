// Package smoke sends one request to the generate service and reports what
// came back.
package smoke

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/backend"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/config"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/logging"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// UnknownTitle is reported when the first slide has no title.
const UnknownTitle = "Unknown"

// excerptLimit caps how much of a raw body is echoed back.
const excerptLimit = 200

// Generator is the part of backend.Client the runner needs.
type Generator interface {
	Endpoint() string
	Generate(ctx context.Context, request payload.Request) (*backend.Result, error)
}

// Outcome is how a run ended.
type Outcome int

const (
	Success Outcome = iota
	TransportError
	RequestFailed
	MalformedResponse
	UnexpectedResponse
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case TransportError:
		return "transport error"
	case RequestFailed:
		return "request failed"
	case MalformedResponse:
		return "malformed response"
	case UnexpectedResponse:
		return "unexpected response"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ExitCode is the process exit status for the outcome. Only an undecodable
// success response fails the process; everything else is reported and the run
// ends normally.
func (o Outcome) ExitCode() int {
	if o == MalformedResponse {
		return 1
	}
	return 0
}

// Runner performs smoke runs. Diagnostics go to Out, files to Fs under OutputDir.
type Runner struct {
	client    Generator
	fs        afero.Fs
	out       io.Writer
	outputDir string
}

func NewRunner(client Generator, fs afero.Fs, out io.Writer, outputDir string) *Runner {
	if outputDir == "" {
		outputDir = "."
	}
	return &Runner{
		client:    client,
		fs:        fs,
		out:       out,
		outputDir: outputDir,
	}
}

// Run dispatches on the configured mode.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) Outcome {
	var outcome Outcome
	switch cfg.Mode {
	case config.ModeDeck:
		outcome = r.Deck(ctx, cfg.Deck)
	default:
		outcome = r.Research(ctx, cfg.Query)
	}
	log.WithFields(logrus.Fields{"mode": cfg.Mode, "outcome": outcome.String()}).Debug("Smoke run finished")
	return outcome
}

func (r *Runner) path(name string) string {
	return filepath.Join(r.outputDir, name)
}

func (r *Runner) println(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// excerpt returns at most excerptLimit characters of body.
func excerpt(body []byte) string {
	runes := []rune(string(body))
	if len(runes) <= excerptLimit {
		return string(runes)
	}
	return string(runes[:excerptLimit])
}

package config

import (
	"time"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

const (
	ModeResearch = "research"
	ModeDeck     = "deck"
)

// ResearchTimeout is how long research mode waits when no timeout is configured.
// Deep research takes a while on the service side.
const ResearchTimeout = 120 * time.Second

// StubConfig configures the local stub generate service.
type StubConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// Config holds the application configuration.
type Config struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Mode      string        `mapstructure:"mode"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OutputDir string        `mapstructure:"output_dir"`
	Query     string        `mapstructure:"query"`
	Deck      payload.Deck  `mapstructure:"deck"`
	Stub      StubConfig    `mapstructure:"stub"`
}

// RequestTimeout returns the configured timeout, falling back to the mode's
// default. Zero means no timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	if c.Mode == ModeResearch {
		return ResearchTimeout
	}
	return 0
}

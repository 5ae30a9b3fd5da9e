package config

import (
	"github.com/spf13/pflag"
)

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	Debug      bool
	Help       bool
	Version    bool
	ServeStub  bool

	// Flags is kept so the values below can be bound into viper.
	Flags *pflag.FlagSet
}

// NewFlagSet declares every command line flag. Flags that mirror config keys
// are bound into viper by Load.
func NewFlagSet(cli *CliConfig) *pflag.FlagSet {
	fs := pflag.NewFlagSet("generate-smoke", pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to the config file")
	fs.BoolVarP(&cli.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVarP(&cli.Version, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&cli.Help, "help", "h", false, "Print usage and exit")
	fs.BoolVar(&cli.ServeStub, "serve-stub", false, "Run the stub generate service instead of the client")

	fs.String("mode", ModeResearch, "Request variant: research (query only) or deck (structured slides)")
	fs.String("query", "", "Research query to send in research mode")
	fs.String("endpoint", "", "URL of the generate endpoint")
	fs.String("out", "", "Directory output files are written to and checked in")
	fs.Duration("timeout", 0, "Request timeout; 0 uses the mode default")
	return fs
}

// ParseArgs parses args (without the program name) into the global CliArgs.
func ParseArgs(args []string) error {
	if CliArgs != nil {
		panic("already defined")
	}
	cli := &CliConfig{}
	cli.Flags = NewFlagSet(cli)
	if err := cli.Flags.Parse(args); err != nil {
		return err
	}
	CliArgs = cli
	return nil
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"mode":     "mode",
	"query":    "query",
	"endpoint": "endpoint",
	"out":      "output_dir",
	"timeout":  "timeout",
}

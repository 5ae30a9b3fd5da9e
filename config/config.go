package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// The global, read-only config variable.
var (
	cfg  *Config
	once sync.Once
)

// EnvPrefix prefixes every environment override, e.g. SMOKE_ENDPOINT.
const EnvPrefix = "SMOKE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "http://localhost:9010/generate")
	v.SetDefault("mode", ModeResearch)
	v.SetDefault("timeout", "0s")
	v.SetDefault("output_dir", ".")
	v.SetDefault("query", "The History of Espresso Machines")
	v.SetDefault("deck.title", "Standalone Test")
	v.SetDefault("deck.slides", []map[string]any{
		{
			"title":    "Debug Slide",
			"findings": "This is a test to verify PDF generation logic. The slide should contain this text.",
		},
	})
	v.SetDefault("stub.listen_address", "127.0.0.1:9010")
}

// Load builds a Config from defaults, an optional YAML file, SMOKE_* environment
// variables (a .env file is honoured) and any changed flags, in increasing order
// of precedence. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		// Read in the config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	// Unmarshal the config into the Config struct
	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := configuration.validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	switch c.Mode {
	case ModeResearch:
		if strings.TrimSpace(c.Query) == "" {
			return errors.New("query is required in research mode")
		}
	case ModeDeck:
		if len(c.Deck.Slides) == 0 {
			return errors.New("deck.slides must not be empty in deck mode")
		}
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeResearch, ModeDeck)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// LoadConfig loads the configuration and initializes the global cfg variable.
// It ensures that the configuration is set only once.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	var err error
	once.Do(func() {
		cfg, err = Load(configFile, flags)
	})

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration was not set")
	}

	return cfg, nil
}

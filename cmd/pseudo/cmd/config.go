package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/symbol"
)

// Config holds the pseudo.toml or pseudo.yaml configuration.
// Command line flags override it.
type Config struct {
	Format    FormatConfig    `toml:"format" yaml:"format"`
	Check     symbol.Config   `toml:"check" yaml:"check"`
	RoundTrip RoundTripConfig `toml:"roundtrip" yaml:"roundtrip"`
}

// FormatConfig holds printer settings used by fmt, roundtrip and repl.
type FormatConfig struct {
	IndentWidth int  `toml:"indent_width" yaml:"indent_width"`
	UseTabs     bool `toml:"use_tabs" yaml:"use_tabs"`
	Japanese    bool `toml:"japanese" yaml:"japanese"`
	// Workers bounds the number of files formatted at once.
	Workers int `toml:"workers" yaml:"workers"`
}

// RoundTripConfig holds round trip validation settings.
type RoundTripConfig struct {
	CompareText bool `toml:"compare_text" yaml:"compare_text"`
}

// Pretty returns the printer configuration.
func (c FormatConfig) Pretty() ast.PrettyConfig {
	return ast.PrettyConfig{
		IndentWidth: c.IndentWidth,
		UseTabs:     c.UseTabs,
		Japanese:    c.Japanese,
	}
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from a TOML file, or from YAML when the
// file extension is .yaml or .yml. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config: unknown keys %v", undecoded)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// findConfig returns $PSEUDO_CONFIG or the first config file present in
// the working directory, or "" when there is none.
func findConfig() string {
	if path := os.Getenv("PSEUDO_CONFIG"); path != "" {
		return path
	}
	for _, p := range []string{"pseudo.toml", "pseudo.yaml", "pseudo.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Format.IndentWidth <= 0 {
		c.Format.IndentWidth = ast.DefaultIndentWidth
	}
	if c.Format.Workers <= 0 {
		c.Format.Workers = runtime.GOMAXPROCS(0)
	}
}

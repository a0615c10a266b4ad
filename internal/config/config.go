// Package config loads ctlgen settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/store"
)

// Config holds all ctlgen configuration.
type Config struct {
	// Separator joins template data tokens. Exactly one character.
	Separator string `yaml:"separator"`
	// Workers bounds concurrent sheet rendering.
	Workers int `yaml:"workers"`

	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Tables overrides table layouts by table name.
	Tables map[string]TableConfig `yaml:"tables,omitempty"`
}

// OutputConfig configures where rendered files go.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	Backup    bool   `yaml:"backup"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// TableConfig moves a table within the data workbook. Zero values keep the
// built-in layout.
type TableConfig struct {
	Sheet        string `yaml:"sheet,omitempty"`
	FirstDataRow int    `yaml:"first_data_row,omitempty"`
	HeaderRow    int    `yaml:"header_row,omitempty"`
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging formats.
var ValidLogFormats = []string{"json", "console"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Separator: ctlgen.DefaultSeparator,
		Workers:   1,
		Output: OutputConfig{
			Dir:       "out",
			Extension: ".txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if sep := os.Getenv("CTLGEN_SEPARATOR"); sep != "" {
		c.Separator = sep
	}
	if dir := os.Getenv("CTLGEN_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if level := os.Getenv("CTLGEN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	// Unparsable values are left for Validate to catch on the file value.
	if workers := os.Getenv("CTLGEN_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			c.Workers = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("invalid separator %q: must be exactly one character", c.Separator)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.Format != "" && !slices.Contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}

	names := store.TableNames()
	for name, t := range c.Tables {
		if !slices.Contains(names, name) {
			return fmt.Errorf("unknown table: %s (valid: %v)", name, names)
		}
		if t.FirstDataRow < 0 || t.HeaderRow < 0 {
			return fmt.Errorf("table %s: row numbers must not be negative", name)
		}
	}

	return nil
}

// ConversionOptions returns the conversion options described by c.
func (c *Config) ConversionOptions(logger *zap.Logger) ctlgen.Options {
	opts := ctlgen.Options{
		Separator: c.Separator,
		Workers:   c.Workers,
		Logger:    logger,
	}
	if len(c.Tables) > 0 {
		opts.Overrides = make(map[string]store.Override, len(c.Tables))
		for name, t := range c.Tables {
			opts.Overrides[name] = store.Override{
				Sheet:        t.Sheet,
				FirstDataRow: t.FirstDataRow,
				HeaderRow:    t.HeaderRow,
			}
		}
	}
	return opts
}

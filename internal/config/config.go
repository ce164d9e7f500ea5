package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/internal/logging"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "lpass-lookup.yaml"

// CurrentVersion is the only configuration version understood.
const CurrentVersion = 1

// Output formats accepted by the lookup command.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputText = "text"
)

//go:embed schema.json
var schemaJSON []byte

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool

	// Required makes a missing file an error. It is set when the path was
	// given explicitly.
	Required bool

	// Flag overrides applied on top of the loaded Definition.
	CommandOverride     string
	MetricsFileOverride string

	Definition *Definition
}

// Definition represents the lpass-lookup.yaml structure
type Definition struct {
	Version     int                    `yaml:"version" json:"version"`
	Command     string                 `yaml:"command,omitempty" json:"command,omitempty"`
	Defaults    lastpass.LookupOptions `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Output      string                 `yaml:"output,omitempty" json:"output,omitempty"`
	MetricsFile string                 `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
}

// Default returns the definition used when no file exists.
func Default() *Definition {
	return &Definition{
		Version: CurrentVersion,
		Command: lastpass.DefaultCommand,
		Output:  OutputJSON,
	}
}

// Load reads, validates and parses the configuration file. A missing file
// yields Default() unless Required is set.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.Required {
				return dserrors.ConfigError{
					Field:      "path",
					Value:      c.Path,
					Message:    "configuration file not found",
					Suggestion: "Check the --config path, or omit it to use built-in defaults",
				}
			}
			if c.Logger != nil {
				c.Logger.Debug("No configuration at %s, using defaults", c.Path)
			}
			c.Definition = Default()
			return nil
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	if c.Logger != nil {
		c.Logger.Debug("Loaded configuration from %s", c.Path)
	}
	c.Definition = def
	return nil
}

// Parse validates data against the configuration schema and decodes it on
// top of Default().
func Parse(data []byte) (*Definition, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	def := Default()
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, dserrors.ConfigError{
			Message:    fmt.Sprintf("cannot decode configuration: %v", err),
			Suggestion: "Compare the file against the documented lpass-lookup.yaml keys",
		}
	}

	return def, nil
}

func validateSchema(raw map[string]interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert configuration to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	if len(errs) == 1 {
		return dserrors.ConfigError{
			Field:      errs[0].Field(),
			Value:      errs[0].Value(),
			Message:    errs[0].Description(),
			Suggestion: "Compare the file against the documented lpass-lookup.yaml keys",
		}
	}

	var msgs []string
	for _, desc := range errs {
		msgs = append(msgs, desc.String())
	}
	return dserrors.ConfigError{
		Message:    "schema validation failed:\n  - " + strings.Join(msgs, "\n  - "),
		Suggestion: "Compare the file against the documented lpass-lookup.yaml keys",
	}
}

// LookupDefaults returns the default lookup options, or the zero value when
// nothing is loaded.
func (c *Config) LookupDefaults() lastpass.LookupOptions {
	if c.Definition == nil {
		return lastpass.LookupOptions{}
	}
	return c.Definition.Defaults
}

// Command returns the lpass executable to run.
func (c *Config) Command() string {
	if c.CommandOverride != "" {
		return c.CommandOverride
	}
	if c.Definition == nil || c.Definition.Command == "" {
		return lastpass.DefaultCommand
	}
	return c.Definition.Command
}

// MetricsFile returns the textfile path for metrics, or "" when disabled.
func (c *Config) MetricsFile() string {
	if c.MetricsFileOverride != "" {
		return c.MetricsFileOverride
	}
	if c.Definition == nil {
		return ""
	}
	return c.Definition.MetricsFile
}

// OutputFormat returns the configured output format.
func (c *Config) OutputFormat() string {
	if c.Definition == nil || c.Definition.Output == "" {
		return OutputJSON
	}
	return c.Definition.Output
}

// ValidateOutputFormat rejects formats the lookup command cannot print.
func ValidateOutputFormat(format string) error {
	switch format {
	case OutputJSON, OutputYAML, OutputText:
		return nil
	}
	return dserrors.ConfigError{
		Field:      "output",
		Value:      format,
		Message:    "unsupported output format",
		Suggestion: "Use one of: json, yaml, text",
	}
}

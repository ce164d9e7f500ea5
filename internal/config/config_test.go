package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfig_Load_Full(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `version: 1
command: /usr/local/bin/lpass
defaults:
  field: username
  sync: now
  fixed_strings: true
output: yaml
metrics_file: /var/lib/node_exporter/lpass.prom
`)

	cfg := &Config{Path: path, Logger: logging.Discard()}
	require.NoError(t, cfg.Load())

	assert.Equal(t, &Definition{
		Version: 1,
		Command: "/usr/local/bin/lpass",
		Defaults: lastpass.LookupOptions{
			Field:        "username",
			Sync:         lastpass.SyncNow,
			FixedStrings: true,
		},
		Output:      OutputYAML,
		MetricsFile: "/var/lib/node_exporter/lpass.prom",
	}, cfg.Definition)
	assert.Equal(t, "/usr/local/bin/lpass", cfg.Command())
	assert.Equal(t, OutputYAML, cfg.OutputFormat())
	assert.Equal(t, "username", cfg.LookupDefaults().Field)
}

func TestConfig_Load_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "defaults:\n  as_dict: true\n  pairs: true\n")

	cfg := &Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, CurrentVersion, cfg.Definition.Version)
	assert.Equal(t, lastpass.DefaultCommand, cfg.Command())
	assert.Equal(t, OutputJSON, cfg.OutputFormat())
	assert.Equal(t, lastpass.LookupOptions{AsDict: true, Pairs: true}, cfg.LookupDefaults())
}

func TestConfig_Load_EmptyFile(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "")}
	require.NoError(t, cfg.Load())
	assert.Equal(t, Default(), cfg.Definition)
}

func TestConfig_Load_MissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg := &Config{Path: missing, Logger: logging.Discard()}
	require.NoError(t, cfg.Load())
	assert.Equal(t, Default(), cfg.Definition)

	cfg = &Config{Path: missing, Required: true}
	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
	assert.Nil(t, cfg.Definition)
}

func TestConfig_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "defaults:\n  field: [unterminated\n")}
	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML syntax")
}

func TestConfig_Load_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		errContains []string
	}{
		{
			name:        "unsupported version",
			content:     "version: 2\n",
			errContains: []string{"version"},
		},
		{
			name:        "unknown top-level key",
			content:     "version: 1\nsecretStores: {}\n",
			errContains: []string{"secretStores"},
		},
		{
			name:        "sync not a string",
			content:     "defaults:\n  field: password\n  sync: [now]\n",
			errContains: []string{"defaults.sync"},
		},
		{
			name:        "wrong type",
			content:     "defaults:\n  as_dict: \"yes\"\n",
			errContains: []string{"defaults.as_dict"},
		},
		{
			name:        "bad output",
			content:     "output: xml\n",
			errContains: []string{"output"},
		},
		{
			name:        "several problems",
			content:     "output: xml\ncommand: \"\"\n",
			errContains: []string{"schema validation failed", "output", "command"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Path: writeConfig(t, tt.content)}
			err := cfg.Load()
			require.Error(t, err)

			var cerr dserrors.ConfigError
			require.ErrorAs(t, err, &cerr)
			for _, s := range tt.errContains {
				assert.Contains(t, err.Error(), s)
			}
			assert.Nil(t, cfg.Definition)
		})
	}
}

func TestConfig_Load_SyncPassedThrough(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "defaults:\n  sync: sometimes\n")}
	require.NoError(t, cfg.Load())
	assert.Equal(t, lastpass.SyncMode("sometimes"), cfg.LookupDefaults().Sync)
}

func TestConfig_NotLoaded(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, lastpass.DefaultCommand, cfg.Command())
	assert.Equal(t, OutputJSON, cfg.OutputFormat())
	assert.Equal(t, lastpass.LookupOptions{}, cfg.LookupDefaults())
	assert.Empty(t, cfg.MetricsFile())
}

func TestConfig_FlagOverrides(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "command: /usr/bin/lpass\nmetrics_file: /tmp/a.prom\n")}
	require.NoError(t, cfg.Load())
	assert.Equal(t, "/usr/bin/lpass", cfg.Command())
	assert.Equal(t, "/tmp/a.prom", cfg.MetricsFile())

	cfg.CommandOverride = "/opt/lpass"
	cfg.MetricsFileOverride = "/tmp/b.prom"
	assert.Equal(t, "/opt/lpass", cfg.Command())
	assert.Equal(t, "/tmp/b.prom", cfg.MetricsFile())
}

func TestValidateOutputFormat(t *testing.T) {
	t.Parallel()

	for _, f := range []string{OutputJSON, OutputYAML, OutputText} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	err := ValidateOutputFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, yaml, text")
}

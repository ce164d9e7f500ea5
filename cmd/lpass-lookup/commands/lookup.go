package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/systmms/lpass-lookup/internal/config"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"gopkg.in/yaml.v3"
)

func NewLookupCommand(cfg *config.Config) *cobra.Command {
	var (
		field        string
		asDict       bool
		pairs        bool
		basicRegexp  bool
		fixedStrings bool
		expandMulti  bool
		sync         string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "lookup [flags] TARGET...",
		Short: "Look up one or more LastPass entries",
		Long: `Look up LastPass entries by name, folder/name path or id.

The session is checked once with 'lpass status', then every target is
shown in order. The first failure aborts the whole lookup and nothing is
printed. On success one result is printed per target, in input order.

Exactly one of --field or --as-dict selects what is returned, unless
lpass-lookup.yaml sets a default under 'defaults'.

Examples:
  # Password of a single entry
  lpass-lookup lookup --field password Shared-infra/db

  # Custom field of an entry addressed by id
  lpass-lookup lookup --field "API Key" 4242424242

  # Every field, as an ordered list keeping duplicates
  lpass-lookup lookup --as-dict --pairs --format yaml web

  # Refresh the local cache first
  lpass-lookup lookup --sync now --field username web mail`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			opts := cfg.LookupDefaults()
			flags := cmd.Flags()
			if flags.Changed("field") || flags.Changed("as-dict") {
				// an explicit selection replaces the configured one
				opts.Field, opts.AsDict = "", false
				if flags.Changed("field") {
					opts.Field = field
				}
				if flags.Changed("as-dict") {
					opts.AsDict = asDict
				}
			}
			if flags.Changed("pairs") {
				opts.Pairs = pairs
			}
			if flags.Changed("basic-regexp") {
				opts.BasicRegexp = basicRegexp
			}
			if flags.Changed("fixed-strings") {
				opts.FixedStrings = fixedStrings
			}
			if flags.Changed("expand-multi") {
				opts.ExpandMulti = expandMulti
			}
			if flags.Changed("sync") {
				opts.Sync = lastpass.SyncMode(sync)
			}

			if !flags.Changed("format") {
				format = cfg.OutputFormat()
			}
			if err := config.ValidateOutputFormat(format); err != nil {
				return err
			}

			if err := opts.Validate(); err != nil {
				return dserrors.UserError{
					Message:    "Invalid lookup options",
					Details:    err.Error(),
					Suggestion: "Pass --field <name> or --as-dict, or set one of them under 'defaults' in lpass-lookup.yaml",
					Err:        err,
				}
			}

			m, flush := newMetrics(cfg)
			defer flush()

			client, err := newClient(cfg, m)
			if err != nil {
				return err
			}

			runner := lastpass.NewRunner(client, cfg.Logger, m)
			entries, err := runner.Run(cmd.Context(), args, opts)
			if err != nil {
				return dserrors.ProviderError(lastpass.ProviderName, "lookup", err)
			}
			cfg.Logger.Debug("Looked up %d target(s)", len(entries))

			return writeEntries(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Field to return: username, password, url, notes, id, name, or a custom field name")
	cmd.Flags().BoolVar(&asDict, "as-dict", false, "Return every field of the entry")
	cmd.Flags().BoolVar(&pairs, "pairs", false, "With --as-dict, keep fields as an ordered key/value list")
	cmd.Flags().BoolVar(&basicRegexp, "basic-regexp", false, "Match targets as basic regular expressions")
	cmd.Flags().BoolVar(&fixedStrings, "fixed-strings", false, "Match targets as fixed substrings")
	cmd.Flags().BoolVar(&expandMulti, "expand-multi", false, "Show every matching entry")
	cmd.Flags().StringVar(&sync, "sync", "", "Vault sync mode passed to lpass: auto, now or no")
	cmd.Flags().StringVar(&format, "format", config.OutputJSON, "Output format: json, yaml or text")

	return cmd
}

func writeEntries(w io.Writer, format string, entries []lastpass.Entry) error {
	switch format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case config.OutputText:
		return writeText(w, entries)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
}

// writeText prints scalars one per line and multi-field entries as
// "key: value" blocks separated by a blank line.
func writeText(w io.Writer, entries []lastpass.Entry) error {
	for i, e := range entries {
		switch e.Kind {
		case lastpass.KindScalar:
			if _, err := fmt.Fprintln(w, e.Scalar); err != nil {
				return err
			}
			continue
		case lastpass.KindMap:
			keys := make([]string, 0, len(e.Map))
			for k := range e.Map {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, err := fmt.Fprintf(w, "%s: %s\n", k, e.Map[k]); err != nil {
					return err
				}
			}
		case lastpass.KindPairs:
			for _, p := range e.Pairs {
				if _, err := fmt.Fprintf(w, "%s: %s\n", p.Key, p.Value); err != nil {
					return err
				}
			}
		}
		if i < len(entries)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

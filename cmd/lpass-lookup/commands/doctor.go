package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/lpass-lookup/internal/config"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/pkg/provider"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var (
		verbose bool
		target  string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the lpass setup",
		Long: `Verify that lpass-lookup can talk to LastPass.

This command checks:
- Configuration file validity
- lpass executable resolution
- LastPass session status
- With --target, that the entry exists and which fields it has`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := make([]CheckResult, 0, 4)

			cfg.Logger.Info("Checking lpass-lookup setup...")
			if err := cfg.Load(); err != nil {
				results = append(results, CheckResult{
					Name:        "config",
					Status:      "error",
					Message:     firstLine(err.Error()),
					Suggestions: []string{"Fix or remove " + cfg.Path},
				})
				displayCheckResults(out, results, verbose)
				return fmt.Errorf("failed to load config: %w", err)
			}
			results = append(results, CheckResult{Name: "config", Status: "healthy", Message: configMessage(cfg)})

			client, err := newClient(cfg, nil)
			if err != nil {
				results = append(results, CheckResult{
					Name:    "executable",
					Status:  "error",
					Message: checkMessage(err),
					Suggestions: []string{
						"Install the LastPass CLI: https://github.com/lastpass/lastpass-cli",
						"Or point 'command' in lpass-lookup.yaml (or --lpass-command) at the lpass binary",
					},
				})
				displayCheckResults(out, results, verbose)
				return summarize(out, results)
			}
			results = append(results, CheckResult{Name: "executable", Status: "healthy", Message: client.Command()})

			p := lastpass.NewProvider(client, cfg.LookupDefaults())
			session := CheckResult{Name: "session", Capabilities: p.Capabilities()}
			if err := p.Validate(cmd.Context()); err != nil {
				session.Status = "error"
				session.Message = err.Error()
				var authErr provider.AuthError
				if errors.As(err, &authErr) {
					session.Suggestions = []string{
						"Run: lpass login <email>",
						"Check the agent timeout: LPASS_AGENT_TIMEOUT",
					}
				}
			} else {
				session.Status = "healthy"
				session.Message = "Session is ready"
			}
			results = append(results, session)

			if target != "" && session.Status == "healthy" {
				results = append(results, checkEntry(cmd.Context(), p, target))
			}

			displayCheckResults(out, results, verbose)
			if err := summarize(out, results); err != nil {
				return err
			}

			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show suggestions and provider capabilities")
	cmd.Flags().StringVar(&target, "target", "", "Also check that this entry exists and list its field names")

	return cmd
}

// CheckResult is the outcome of one doctor check.
type CheckResult struct {
	Name         string
	Status       string // healthy, error
	Message      string
	Capabilities provider.Capabilities
	Suggestions  []string
}

func configMessage(cfg *config.Config) string {
	return fmt.Sprintf("%s (version %d, output %s)", cfg.Path, cfg.Definition.Version, cfg.OutputFormat())
}

// displayCheckResults shows check results in a formatted table
func displayCheckResults(out io.Writer, results []CheckResult, verbose bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "CHECK\tSTATUS\tMESSAGE\n")
	_, _ = fmt.Fprintf(w, "-----\t------\t-------\n")

	for _, result := range results {
		status := result.Status
		switch result.Status {
		case "healthy":
			status = "✓ " + status
		case "error":
			status = "✗ " + status
		default:
			status = "? " + status
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", result.Name, status, result.Message)
	}

	_ = w.Flush()

	if !verbose {
		return
	}
	for _, result := range results {
		if result.Status == "error" && len(result.Suggestions) > 0 {
			_, _ = fmt.Fprintf(out, "\n%s suggestions:\n", result.Name)
			for _, suggestion := range result.Suggestions {
				_, _ = fmt.Fprintf(out, "  • %s\n", suggestion)
			}
		}
		if result.Name == "session" && result.Status == "healthy" {
			caps := result.Capabilities
			_, _ = fmt.Fprintf(out, "\n%s capabilities:\n", lastpass.ProviderName)
			_, _ = fmt.Fprintf(out, "  • Metadata: %t\n", caps.SupportsMetadata)
			_, _ = fmt.Fprintf(out, "  • Auth required: %t\n", caps.RequiresAuth)
			if len(caps.AuthMethods) > 0 {
				_, _ = fmt.Fprintf(out, "  • Auth methods: %v\n", caps.AuthMethods)
			}
		}
	}
}

func summarize(out io.Writer, results []CheckResult) error {
	healthy := 0
	for _, result := range results {
		if result.Status == "healthy" {
			healthy++
		}
	}

	_, _ = fmt.Fprintf(out, "\nSummary: %d/%d checks passed\n", healthy, len(results))
	if healthy < len(results) {
		return fmt.Errorf("%d check(s) failed", len(results)-healthy)
	}
	return nil
}

// checkEntry describes target without reading any of its values.
func checkEntry(ctx context.Context, p *lastpass.Provider, target string) CheckResult {
	result := CheckResult{Name: "entry"}

	meta, err := p.Describe(ctx, provider.Reference{Provider: lastpass.ProviderName, Key: target})
	switch {
	case err != nil:
		result.Status = "error"
		result.Message = checkMessage(err)
		if errors.Is(err, lastpass.ErrAmbiguousMatch) {
			result.Suggestions = []string{"Use the entry id or the full folder/name path (see 'lpass ls')"}
		}
	case !meta.Exists:
		result.Status = "error"
		result.Message = target + " not found"
		result.Suggestions = []string{
			"Check the name with 'lpass ls'",
			"Refresh the local cache: lpass-lookup lookup --sync now " + target,
		}
	default:
		result.Status = "healthy"
		result.Message = fmt.Sprintf("%s (fields: %s)", target, meta.Tags["fields"])
	}
	return result
}

// checkMessage prefers the lastpass error text over the wrapping
// user-facing message.
func checkMessage(err error) string {
	var lerr *lastpass.LookupError
	if errors.As(err, &lerr) {
		return lerr.Error()
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

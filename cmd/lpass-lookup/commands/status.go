package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/lpass-lookup/internal/config"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
)

func NewStatusCommand(cfg *config.Config) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the LastPass session status",
		Long: `Run 'lpass status' and print what it reports.

Exits nonzero when lpass reports no usable session. With --quiet nothing
is printed, which suits shell conditionals:

  lpass-lookup status --quiet || lpass login ops@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			m, flush := newMetrics(cfg)
			defer flush()

			client, err := newClient(cfg, m)
			if err != nil {
				return err
			}

			status, err := client.Status(cmd.Context())
			if err != nil {
				return dserrors.ProviderError(lastpass.ProviderName, "status", err)
			}

			if !quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing, only set the exit status")

	return cmd
}

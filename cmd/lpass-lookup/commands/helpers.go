package commands

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/systmms/lpass-lookup/internal/config"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/internal/metrics"
	pkgexec "github.com/systmms/lpass-lookup/pkg/exec"
)

// newExecutor is swapped out by tests.
var newExecutor = func(cfg *config.Config) pkgexec.CommandExecutor {
	if cfg.NonInteractive {
		// lpass falls back to reading the master password from stdin,
		// which is empty, so a locked vault fails instead of prompting.
		return &pkgexec.RealCommandExecutor{Env: []string{"LPASS_DISABLE_PINENTRY=1"}}
	}
	return pkgexec.DefaultExecutor()
}

// newClient builds a lastpass client from the loaded configuration.
func newClient(cfg *config.Config, m *metrics.LookupMetrics) (*lastpass.Client, error) {
	client, err := lastpass.New(
		lastpass.WithCommand(cfg.Command()),
		lastpass.WithExecutor(newExecutor(cfg)),
		lastpass.WithLogger(cfg.Logger),
		lastpass.WithMetrics(m),
	)
	if err != nil {
		if errors.Is(err, lastpass.ErrExecutableNotFound) {
			return nil, dserrors.WrapCommandNotFound(cfg.Command(), err)
		}
		return nil, dserrors.ProviderError(lastpass.ProviderName, "setup", err)
	}
	return client, nil
}

// newMetrics returns metrics bound to a private registry and a flush func
// that writes them to the configured textfile. Both are no-ops when no
// metrics file is configured.
func newMetrics(cfg *config.Config) (*metrics.LookupMetrics, func()) {
	path := cfg.MetricsFile()
	if path == "" {
		return nil, func() {}
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewLookupMetrics(reg)
	return m, func() {
		if err := metrics.WriteTextfile(path, reg); err != nil {
			cfg.Logger.Warn("Failed to write metrics to %s: %v", path, err)
			return
		}
		cfg.Logger.Debug("Wrote metrics to %s", path)
	}
}

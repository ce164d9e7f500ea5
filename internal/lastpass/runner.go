package lastpass

import (
	"context"

	"github.com/systmms/lpass-lookup/internal/logging"
	"github.com/systmms/lpass-lookup/internal/metrics"
)

// Vault is what a Runner needs from a Client.
type Vault interface {
	Status(ctx context.Context) (string, error)
	Show(ctx context.Context, target string, opts LookupOptions) (Entry, error)
}

// Runner looks up a list of targets with a shared option set.
type Runner struct {
	vault   Vault
	logger  *logging.Logger
	metrics *metrics.LookupMetrics
}

// NewRunner returns a Runner backed by vault. logger and m may be nil.
func NewRunner(vault Vault, logger *logging.Logger, m *metrics.LookupMetrics) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{vault: vault, logger: logger, metrics: m}
}

// Run checks the session once, then shows each target in order. The first
// failure aborts the batch and no results are returned. On success the
// result has one entry per target, in input order.
func (r *Runner) Run(ctx context.Context, targets []string, opts LookupOptions) ([]Entry, error) {
	status, err := r.vault.Status(ctx)
	if err != nil {
		r.metrics.ObserveBatch(KindName(err))
		return nil, err
	}
	r.logger.Debug("lpass status: %s", status)

	entries := make([]Entry, 0, len(targets))
	for i, target := range targets {
		entry, err := r.vault.Show(ctx, target, opts)
		if err != nil {
			r.logger.Debug("Lookup %d/%d failed, aborting batch", i+1, len(targets))
			r.metrics.ObserveBatch(KindName(err))
			return nil, err
		}
		entries = append(entries, entry)
	}

	r.metrics.ObserveBatch(KindName(nil))
	return entries, nil
}

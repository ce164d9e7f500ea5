package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "raw yaml error becomes a config error",
			err:  fmt.Errorf("decode: %w", fmt.Errorf("yaml: line 2: did not find expected key")),
			want: "Error: Configuration error: Invalid YAML format\n  Try: Check for indentation errors and missing quotes",
		},
		{
			name: "user-facing errors pass through",
			err:  dserrors.ProviderError(lastpass.ProviderName, "lookup", &lastpass.LookupError{Kind: lastpass.ErrAmbiguousMatch, Target: "web"}),
			want: "Error: lastpass provider error during lookup" +
				"\n  Details: lastpass found multiple matches for web, use a unique name or id" +
				"\n  Try: Use the entry id or the full folder/name path. List candidates with 'lpass ls'",
		},
		{
			name: "unknown errors are kept",
			err:  fmt.Errorf("unknown flag: --feild"),
			want: "Error: unknown flag: --feild",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatError(tt.err))
		})
	}
}

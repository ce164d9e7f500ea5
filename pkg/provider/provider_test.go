package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      NotFoundError
		expected string
	}{
		{
			name:     "basic error message",
			err:      NotFoundError{Provider: "lastpass", Key: "Shared-infra/db"},
			expected: "secret not found: Shared-infra/db in lastpass",
		},
		{
			name:     "empty key",
			err:      NotFoundError{Provider: "lastpass"},
			expected: "secret not found:  in lastpass",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorTypeChecking(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("resolve failed: %w", &NotFoundError{Provider: "lastpass", Key: "missing"})
	var nf *NotFoundError
	if assert.True(t, errors.As(wrapped, &nf)) {
		assert.Equal(t, "missing", nf.Key)
	}

	authWrapped := fmt.Errorf("validate: %w", AuthError{Provider: "lastpass", Message: "Not logged in."})
	var authErr AuthError
	if assert.True(t, errors.As(authWrapped, &authErr)) {
		assert.Equal(t, "authentication failed for lastpass: Not logged in.", authErr.Error())
	}
}

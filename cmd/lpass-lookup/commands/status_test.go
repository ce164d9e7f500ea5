package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/tests/testutil"
)

func TestStatusCommand(t *testing.T) {
	mockExec := newLoggedInMock()
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewStatusCommand(newTestConfig(t, "")))

	require.NoError(t, err)
	assert.Equal(t, "Logged in as ops@example.com.\n", out)
	mockExec.AssertActionCount(t, "show", 0)
}

func TestStatusCommand_Quiet(t *testing.T) {
	useMockExecutor(t, newLoggedInMock())

	out, err := executeCommand(NewStatusCommand(newTestConfig(t, "")), "--quiet")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStatusCommand_LoggedOut(t *testing.T) {
	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddResponse(fakeLpass+" status --color=never", lp.StatusLoggedOut())
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewStatusCommand(newTestConfig(t, "")))

	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, lastpass.ErrSessionNotReady))
	assert.Contains(t, err.Error(), "lastpass status error: Not logged in.")
}

func TestStatusCommand_UsesConfiguredCommand(t *testing.T) {
	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddResponse("/usr/local/bin/lpass status --color=never", lp.StatusLoggedIn("me@example.com"))
	useMockExecutor(t, mockExec)

	cfg := newTestConfig(t, "command: /usr/local/bin/lpass\n")
	cfg.CommandOverride = ""

	out, err := executeCommand(NewStatusCommand(cfg))

	require.NoError(t, err)
	assert.Equal(t, "Logged in as me@example.com.\n", out)
	mockExec.AssertCalled(t, "/usr/local/bin/lpass")
}

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/lastpass"
	"github.com/systmms/lpass-lookup/tests/testutil"
	"gopkg.in/yaml.v3"
)

func TestLookupCommand_JSON(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --password Shared-infra/db", lp.ShowField("db-pass"))
	mockExec.AddResponse(fakeLpass+" show --color=never --password api-token", lp.ShowField("tok_abc"))
	useMockExecutor(t, mockExec)

	cfg := newTestConfig(t, "")
	out, err := executeCommand(NewLookupCommand(cfg), "--field", "password", "Shared-infra/db", "api-token")

	require.NoError(t, err)
	assert.JSONEq(t, `["db-pass", "tok_abc"]`, out)
	mockExec.AssertActionCount(t, "status", 1)
	mockExec.AssertActionCount(t, "show", 2)
}

func TestLookupCommand_NoTargets(t *testing.T) {
	mockExec := newLoggedInMock()
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--field", "password")

	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
	mockExec.AssertActionCount(t, "status", 1)
	mockExec.AssertActionCount(t, "show", 0)
}

func TestLookupCommand_YAMLPairs(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --all web",
		lp.ShowAll("Username: bob", "Tag: a", "Tag: b"))
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--as-dict", "--pairs", "--format", "yaml", "web")
	require.NoError(t, err)

	var decoded [][]lastpass.Pair
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, [][]lastpass.Pair{{
		{Key: "username", Value: "bob"},
		{Key: "tag", Value: "a"},
		{Key: "tag", Value: "b"},
	}}, decoded)
}

func TestLookupCommand_Text(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --all web", lp.ShowAll("Username: bob", "Password: pw"))
	mockExec.AddResponse(fakeLpass+" show --color=never --all mail", lp.ShowAll("URL: https://mail.example.com"))
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--as-dict", "--format", "text", "web", "mail")

	require.NoError(t, err)
	assert.Equal(t, "password: pw\nusername: bob\n\nurl: https://mail.example.com\n", out)
}

func TestLookupCommand_ConfigDefaults(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --sync=now --username --fixed-strings web", lp.ShowField("bob"))
	useMockExecutor(t, mockExec)

	cfg := newTestConfig(t, "version: 1\ndefaults:\n  field: username\n  sync: now\n  fixed_strings: true\noutput: text\n")
	out, err := executeCommand(NewLookupCommand(cfg), "web")

	require.NoError(t, err)
	assert.Equal(t, "bob\n", out)
}

func TestLookupCommand_FlagsOverrideConfig(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --sync=no --all web", lp.ShowAll("Username: bob"))
	useMockExecutor(t, mockExec)

	cfg := newTestConfig(t, "defaults:\n  field: username\n  sync: now\n")
	out, err := executeCommand(NewLookupCommand(cfg), "--as-dict", "--sync", "no", "web")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"username": "bob"}]`, out)
}

func TestLookupCommand_InvalidOptionsSpawnNothing(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "no selection",
			args:        []string{"web"},
			errContains: "one of field or as_dict is required",
		},
		{
			name:        "field all",
			args:        []string{"--field", "all", "web"},
			errContains: "use as_dict instead",
		},
		{
			name:        "field and as dict",
			args:        []string{"--field", "password", "--as-dict", "web"},
			errContains: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := testutil.NewMockCommandExecutor()
			useMockExecutor(t, mockExec)

			out, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), tt.args...)

			require.Error(t, err)
			assert.True(t, errors.Is(err, lastpass.ErrInvalidOptions))
			assert.Contains(t, err.Error(), tt.errContains)
			assert.Empty(t, out)
			mockExec.AssertNotCalled(t, fakeLpass)
		})
	}
}

func TestLookupCommand_BadFormat(t *testing.T) {
	mockExec := testutil.NewMockCommandExecutor()
	useMockExecutor(t, mockExec)

	_, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--field", "password", "--format", "csv", "web")

	var cerr dserrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "output", cerr.Field)
	assert.Equal(t, 0, mockExec.CallCount())
}

func TestLookupCommand_FailFastPrintsNothing(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --password first", lp.ShowField("one"))
	mockExec.AddResponse(fakeLpass+" show --color=never --password second", lp.NotFound())
	mockExec.AddResponse(fakeLpass+" show --color=never --password third", lp.ShowField("three"))
	useMockExecutor(t, mockExec)

	out, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--field", "password", "first", "second", "third")

	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, lastpass.ErrProcessFailed))
	assert.Contains(t, err.Error(), "lastpass error retrieving data for second")
	assert.Contains(t, err.Error(), "--sync=now")
	mockExec.AssertActionCount(t, "show", 2)
}

func TestLookupCommand_LoggedOut(t *testing.T) {
	mockExec := testutil.NewMockCommandExecutor()
	mockExec.AddResponse(fakeLpass+" status --color=never", lp.StatusLoggedOut())
	useMockExecutor(t, mockExec)

	_, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--field", "password", "web")

	require.Error(t, err)
	assert.True(t, errors.Is(err, lastpass.ErrSessionNotReady))
	assert.Contains(t, err.Error(), "lpass login")
	mockExec.AssertActionCount(t, "show", 0)
}

func TestLookupCommand_Ambiguous(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --password web", lp.MultipleMatches("web"))
	useMockExecutor(t, mockExec)

	_, err := executeCommand(NewLookupCommand(newTestConfig(t, "")), "--field", "password", "web")

	require.Error(t, err)
	assert.True(t, errors.Is(err, lastpass.ErrAmbiguousMatch))
	assert.Contains(t, err.Error(), "lastpass found multiple matches for web")
}

func TestLookupCommand_WritesMetricsFile(t *testing.T) {
	mockExec := newLoggedInMock()
	mockExec.AddResponse(fakeLpass+" show --color=never --password web", lp.ShowField("pw"))
	useMockExecutor(t, mockExec)

	metricsPath := filepath.Join(t.TempDir(), "lpass.prom")
	cfg := newTestConfig(t, "")
	cfg.MetricsFileOverride = metricsPath

	_, err := executeCommand(NewLookupCommand(cfg), "--field", "password", "web")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lpass_lookup_invocations_total{action="show",result="success"} 1`)
	assert.Contains(t, string(data), `lpass_lookup_batches_total{result="success"} 1`)
	assert.NotContains(t, string(data), "pw")
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := writeText(&buf, []lastpass.Entry{
		lastpass.ScalarEntry("alpha"),
		lastpass.ScalarEntry("beta"),
		lastpass.PairsEntry([]lastpass.Pair{{Key: "tag", Value: "x"}, {Key: "tag", Value: "y"}}),
	})

	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\ntag: x\ntag: y\n", buf.String())
}

// Package testutil provides testing utilities for lpass-lookup.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgexec "github.com/systmms/lpass-lookup/pkg/exec"
)

// MockCommandExecutor provides a configurable mock for testing CLI wrappers.
// It satisfies pkgexec.CommandExecutor.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Responses maps command patterns to their mock responses.
	// Key format: "command arg1 arg2" (space-separated command and args)
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching pattern is found.
	DefaultResponse *MockResponse

	// RecordedCalls stores all calls made to Execute for verification.
	RecordedCalls []RecordedCall

	// StrictMode causes Execute to fail if no matching response is found.
	StrictMode bool
}

// MockResponse defines the expected output for a mocked command.
type MockResponse struct {
	Stdout   []byte
	Stderr   []byte
	Err      error // simulates a process that could not be started
	ExitCode int
}

// RecordedCall stores information about a command execution.
type RecordedCall struct {
	Command string
	Args    []string
	Stdin   []byte
	Context context.Context
}

// NewMockCommandExecutor creates a new mock executor with empty responses.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Responses:     make(map[string]MockResponse),
		RecordedCalls: make([]RecordedCall, 0),
	}
}

// Execute returns the mocked response for the given command.
func (m *MockCommandExecutor) Execute(ctx context.Context, stdin []byte, name string, args ...string) (pkgexec.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecordedCalls = append(m.RecordedCalls, RecordedCall{
		Command: name,
		Args:    args,
		Stdin:   stdin,
		Context: ctx,
	})

	key := m.buildKey(name, args)

	if resp, ok := m.Responses[key]; ok {
		return resp.result()
	}

	// Longest matching pattern wins so that "lpass show --all" beats "lpass show".
	best := ""
	for pattern := range m.Responses {
		if m.matchesPattern(key, pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best != "" {
		return m.Responses[best].result()
	}

	if m.DefaultResponse != nil {
		return m.DefaultResponse.result()
	}

	if m.StrictMode {
		return pkgexec.Result{ExitCode: -1}, fmt.Errorf("mock: no response configured for command: %s", key)
	}

	return pkgexec.Result{Stdout: []byte{}, Stderr: []byte{}}, nil
}

func (r MockResponse) result() (pkgexec.Result, error) {
	// Copy stdout so callers that wipe their buffer don't clobber the fixture.
	stdout := append([]byte(nil), r.Stdout...)
	res := pkgexec.Result{ExitCode: r.ExitCode, Stdout: stdout, Stderr: r.Stderr}
	if r.Err != nil {
		res.ExitCode = -1
	}
	return res, r.Err
}

// buildKey creates a lookup key from command and arguments.
func (m *MockCommandExecutor) buildKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// matchesPattern checks if the command key matches a pattern.
// Supports simple prefix matching for flexible response configuration.
func (m *MockCommandExecutor) matchesPattern(key, pattern string) bool {
	if strings.Contains(pattern, "*") {
		return strings.HasPrefix(key, strings.Split(pattern, "*")[0])
	}
	return strings.HasPrefix(key, pattern)
}

// AddResponse registers a mock response for a specific command pattern.
func (m *MockCommandExecutor) AddResponse(commandPattern string, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[commandPattern] = response
}

// GetCalls returns all recorded calls matching the given command name.
func (m *MockCommandExecutor) GetCalls(commandName string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if call.Command == commandName {
			matches = append(matches, call)
		}
	}
	return matches
}

// GetActionCalls returns recorded calls whose first argument is action.
func (m *MockCommandExecutor) GetActionCalls(action string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if len(call.Args) > 0 && call.Args[0] == action {
			matches = append(matches, call)
		}
	}
	return matches
}

// CallCount returns the number of times Execute was called.
func (m *MockCommandExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RecordedCalls)
}

// AssertCalled verifies that a specific command was called at least once.
func (m *MockCommandExecutor) AssertCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) == 0 {
		t.Error("expected command", commandName, "to be called, but it was not")
		return false
	}
	return true
}

// AssertNotCalled verifies that a specific command was never called.
func (m *MockCommandExecutor) AssertNotCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) > 0 {
		t.Error("expected command", commandName, "to not be called, but it was called", len(calls), "times")
		return false
	}
	return true
}

// AssertActionCount verifies the exact number of times an action was run.
func (m *MockCommandExecutor) AssertActionCount(t interface{ Error(args ...interface{}) }, action string, expected int) bool {
	calls := m.GetActionCalls(action)
	if len(calls) != expected {
		t.Error("expected action", action, "to be called", expected, "times, but was called", len(calls), "times")
		return false
	}
	return true
}

// LastPassMockResponses provides pre-configured responses for the lpass CLI.
type LastPassMockResponses struct{}

// StatusLoggedIn returns a mock response for an open lpass session.
func (LastPassMockResponses) StatusLoggedIn(user string) MockResponse {
	return MockResponse{
		Stdout: []byte(fmt.Sprintf("Logged in as %s.\n", user)),
	}
}

// StatusLoggedOut returns a mock response for a closed lpass session.
func (LastPassMockResponses) StatusLoggedOut() MockResponse {
	return MockResponse{
		Stdout:   []byte("Not logged in.\n"),
		ExitCode: 1,
	}
}

// ShowField returns a single-value show response.
func (LastPassMockResponses) ShowField(value string) MockResponse {
	return MockResponse{
		Stdout: []byte(value + "\n"),
	}
}

// ShowAll returns a --all style response built from key/value lines.
func (LastPassMockResponses) ShowAll(lines ...string) MockResponse {
	return MockResponse{
		Stdout: []byte(strings.Join(lines, "\n") + "\n"),
	}
}

// MultipleMatches returns the response lpass gives for an ambiguous target.
func (LastPassMockResponses) MultipleMatches(target string) MockResponse {
	return MockResponse{
		Stdout: []byte(fmt.Sprintf("Multiple matches found.\n%s [id: 1001]\n%s [id: 1002]\n", target, target)),
	}
}

// NotFound returns the response lpass gives for an unknown target.
func (LastPassMockResponses) NotFound() MockResponse {
	return MockResponse{
		Stderr:   []byte("Error: Could not find specified account(s).\n"),
		ExitCode: 1,
	}
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  Try: " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
	Err        error
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  Try: " + e.Suggestion
	}

	return msg
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// ProviderError wraps a provider failure with a suggestion for the user.
// The original error stays reachable through errors.Is and errors.As.
func ProviderError(provider string, operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s provider error during %s", provider, operation),
		Details:    err.Error(),
		Suggestion: getProviderSuggestion(provider, err),
		Err:        err,
	}
}

// getProviderSuggestion returns helpful suggestions based on provider and error
func getProviderSuggestion(provider string, err error) string {
	errStr := err.Error()

	switch provider {
	case "lastpass", "lpass":
		if strings.Contains(errStr, "Not logged in") || strings.Contains(errStr, "status error") {
			return "Run 'lpass login <email>' to start a LastPass session"
		}
		if strings.Contains(errStr, "multiple matches") {
			return "Use the entry id or the full folder/name path. List candidates with 'lpass ls'"
		}
		if strings.Contains(errStr, "Could not find specified account") {
			return "Verify the entry exists with 'lpass ls', or pass --sync=now to refresh the local cache"
		}
		if strings.Contains(errStr, "executable not found") {
			return "Install the LastPass CLI (https://github.com/lastpass/lastpass-cli) or set 'command' in lpass-lookup.yaml"
		}
		if strings.Contains(errStr, "malformed output") {
			return "Check the lpass version. Field lookups with --field avoid parsing the full entry"
		}
	}

	// Generic suggestions
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and provider configuration"
	}

	return ""
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"lpass": "Install the LastPass CLI from https://github.com/lastpass/lastpass-cli",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	msg := "command not found"
	if err != nil {
		msg += ": " + err.Error()
	}

	return CommandError{
		Command:    command,
		ExitCode:   127,
		Message:    msg,
		Suggestion: suggestion,
		Err:        err,
	}
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	var ue UserError
	if errors.As(err, &ue) {
		return err
	}
	var ce ConfigError
	if errors.As(err, &ce) {
		return err
	}
	var cmdErr CommandError
	if errors.As(err, &cmdErr) {
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}

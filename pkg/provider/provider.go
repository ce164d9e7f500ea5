// Package provider defines the interface secret backends implement so that
// callers can fetch secrets without knowing which tool stores them.
//
// # Error Handling
//
// Providers should use the standard error types defined in this package:
//   - NotFoundError for missing secrets
//   - AuthError for authentication failures
//   - Standard Go errors for other cases
//
// # Security Considerations
//
// Providers must never log secret values (use logging.Secret()) and must
// support context cancellation.
package provider

import (
	"context"
	"time"
)

// Provider defines the interface that all secret providers must implement.
//
// Implementations must be safe for concurrent use.
//
// Example usage:
//
//	if err := p.Validate(ctx); err != nil {
//	    return fmt.Errorf("provider validation failed: %w", err)
//	}
//
//	ref := Reference{Provider: p.Name(), Key: "Shared-infra/db", Field: "password"}
//	secret, err := p.Resolve(ctx, ref)
type Provider interface {
	// Name returns the provider's stable, lowercase identifier.
	Name() string

	// Resolve retrieves a secret value. It returns NotFoundError for
	// missing secrets and AuthError when the backend rejects the caller.
	Resolve(ctx context.Context, ref Reference) (SecretValue, error)

	// Describe returns metadata about a secret without its value.
	// Missing secrets yield Metadata{Exists: false} and a nil error.
	Describe(ctx context.Context, ref Reference) (Metadata, error)

	// Capabilities returns the provider's supported features.
	Capabilities() Capabilities

	// Validate checks that the provider is configured and authenticated.
	Validate(ctx context.Context) error
}

// Reference identifies a secret within a provider.
type Reference struct {
	// Provider is the name of the provider that owns this secret.
	Provider string

	// Key identifies the secret within the provider's namespace.
	Key string

	// Version selects a specific version. Empty means current.
	Version string

	// Field selects one field of a structured secret.
	Field string
}

// SecretValue represents a retrieved secret with its metadata.
type SecretValue struct {
	// Value is the secret itself. Providers must never log it.
	Value string

	// Version identifies the returned version, if the backend has versions.
	Version string

	// UpdatedAt is the last modification time, zero if unknown.
	UpdatedAt time.Time

	// Metadata holds provider-specific, non-secret attributes.
	Metadata map[string]string
}

// Metadata describes a secret without exposing its value.
type Metadata struct {
	Exists    bool
	Version   string
	UpdatedAt time.Time

	// Size is the length of the secret in bytes, if known.
	Size int

	// Type is a provider-specific classification.
	Type string

	Permissions []string
	Tags        map[string]string
}

// Capabilities describes what a provider supports.
type Capabilities struct {
	SupportsVersioning bool
	SupportsMetadata   bool
	SupportsWatching   bool
	SupportsBinary     bool
	RequiresAuth       bool

	// AuthMethods lists supported authentication methods, e.g. "cli".
	AuthMethods []string
}

// NotFoundError indicates that a requested secret does not exist.
type NotFoundError struct {
	Provider string
	Key      string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return "secret not found: " + e.Key + " in " + e.Provider
}

// AuthError indicates that authentication to the provider failed.
type AuthError struct {
	Provider string
	Message  string
}

// Error implements the error interface.
func (e AuthError) Error() string {
	return "authentication failed for " + e.Provider + ": " + e.Message
}

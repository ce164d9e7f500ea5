package lastpass

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/systmms/lpass-lookup/pkg/provider"
)

// ProviderName is the name the lastpass provider registers under.
const ProviderName = "lastpass"

// DefaultField is resolved when a reference names no field.
const DefaultField = "password"

// notFoundMarker is what lpass prints on stderr for an unknown target.
const notFoundMarker = "Could not find specified account"

// Provider adapts a Client to provider.Provider.
type Provider struct {
	client *Client
	base   LookupOptions
}

// NewProvider wraps client. base supplies the matching and sync flags used
// for every lookup; its Field, AsDict and Pairs settings are ignored.
func NewProvider(client *Client, base LookupOptions) *Provider {
	base.Field, base.AsDict, base.Pairs = "", false, false
	return &Provider{client: client, base: base}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Capabilities returns the provider capabilities.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		SupportsVersioning: false,
		SupportsMetadata:   true,
		SupportsWatching:   false,
		SupportsBinary:     false,
		RequiresAuth:       true,
		AuthMethods:        []string{"cli"},
	}
}

// Validate checks that lpass has an open session.
func (p *Provider) Validate(ctx context.Context) error {
	if _, err := p.client.Status(ctx); err != nil {
		var lerr *LookupError
		if errors.As(err, &lerr) && lerr.Detail != "" {
			return provider.AuthError{Provider: ProviderName, Message: lerr.Detail}
		}
		return provider.AuthError{Provider: ProviderName, Message: err.Error()}
	}
	return nil
}

// Resolve returns one field of the entry named by ref.Key.
func (p *Provider) Resolve(ctx context.Context, ref provider.Reference) (provider.SecretValue, error) {
	field := ref.Field
	if field == "" {
		field = DefaultField
	}

	opts := p.base
	opts.Field = field

	entry, err := p.client.Show(ctx, ref.Key, opts)
	if err != nil {
		return provider.SecretValue{}, p.translate(ref.Key, err)
	}

	return provider.SecretValue{
		Value:     entry.Scalar,
		UpdatedAt: time.Now(),
		Metadata: map[string]string{
			"provider": ProviderName,
			"target":   ref.Key,
			"field":    field,
		},
	}, nil
}

// Describe lists the field names of the entry without returning values.
func (p *Provider) Describe(ctx context.Context, ref provider.Reference) (provider.Metadata, error) {
	opts := p.base
	opts.AsDict = true

	entry, err := p.client.Show(ctx, ref.Key, opts)
	if err != nil {
		if isNotFound(err) {
			return provider.Metadata{Exists: false}, nil
		}
		return provider.Metadata{}, err
	}

	size := 0
	for _, v := range entry.Map {
		size += len(v)
	}

	return provider.Metadata{
		Exists: true,
		Size:   size,
		Type:   "lastpass_entry",
		Tags: map[string]string{
			"provider": ProviderName,
			"fields":   strings.Join(entry.Keys(), ","),
		},
	}, nil
}

func (p *Provider) translate(key string, err error) error {
	if isNotFound(err) {
		return &provider.NotFoundError{Provider: ProviderName, Key: key}
	}
	return err
}

func isNotFound(err error) bool {
	var lerr *LookupError
	return errors.As(err, &lerr) && lerr.Kind == ErrProcessFailed && strings.Contains(lerr.Detail, notFoundMarker)
}

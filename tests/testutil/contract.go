// Package testutil provides testing utilities and helpers for lpass-lookup tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/lpass-lookup/pkg/provider"
)

// missingKey never exists in a test vault.
const missingKey = "lpass-lookup-contract-missing-entry"

// ProviderTestCase is a provider under test and the secrets it must serve.
type ProviderTestCase struct {
	Name     string
	Provider provider.Provider

	// TestData maps entry keys to the value Resolve must return for the
	// default field.
	TestData map[string]provider.SecretValue

	// SkipConcurrency skips the parallel Resolve/Describe checks.
	SkipConcurrency bool
}

// RunProviderContractTests checks the behavior every provider.Provider
// shares: stable identity, authenticated validation, value resolution,
// value-free metadata, typed not-found errors and safe concurrent use.
//
//	testutil.RunProviderContractTests(t, testutil.ProviderTestCase{
//	    Name:     "lastpass",
//	    Provider: lastpass.NewProvider(client, lastpass.LookupOptions{}),
//	    TestData: map[string]provider.SecretValue{
//	        "Shared-infra/db": {Value: "db-pass-123"},
//	    },
//	})
func RunProviderContractTests(t *testing.T, tc ProviderTestCase) {
	t.Helper()

	require.NotNil(t, tc.Provider, "Provider cannot be nil")
	require.NotEmpty(t, tc.TestData, "TestData must contain at least one secret")

	keys := sortedKeys(tc.TestData)

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, tc.Name, tc.Provider.Name())
		assert.Regexp(t, `^[a-z][a-z0-9._-]*$`, tc.Provider.Name())
	})

	t.Run("Capabilities", func(t *testing.T) {
		caps := tc.Provider.Capabilities()
		assert.Equal(t, caps, tc.Provider.Capabilities(), "Capabilities() must be stable")
		if caps.RequiresAuth {
			assert.NotEmpty(t, caps.AuthMethods, "provider requires auth but lists no AuthMethods")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		assert.NoError(t, tc.Provider.Validate(contractContext(t)))
	})

	t.Run("Resolve", func(t *testing.T) {
		ctx := contractContext(t)
		for _, key := range keys {
			secret, err := tc.Provider.Resolve(ctx, provider.Reference{Provider: tc.Name, Key: key})
			if assert.NoError(t, err, "Resolve(%q)", key) {
				assert.Equal(t, tc.TestData[key].Value, secret.Value, "Resolve(%q)", key)
			}
		}
	})

	t.Run("Describe", func(t *testing.T) {
		ctx := contractContext(t)
		for _, key := range keys {
			meta, err := tc.Provider.Describe(ctx, provider.Reference{Provider: tc.Name, Key: key})
			require.NoError(t, err, "Describe(%q)", key)
			assert.True(t, meta.Exists, "Describe(%q).Exists", key)

			if tc.Provider.Capabilities().SupportsMetadata {
				assert.True(t, meta.Type != "" || len(meta.Tags) > 0,
					"provider supports metadata but Describe(%q) returned none", key)
			}
			for tag, v := range meta.Tags {
				assert.NotContains(t, v, tc.TestData[key].Value, "tag %q leaks the secret value", tag)
			}
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := contractContext(t)
		ref := provider.Reference{Provider: tc.Name, Key: missingKey}

		_, err := tc.Provider.Resolve(ctx, ref)
		var nf *provider.NotFoundError
		if assert.ErrorAs(t, err, &nf) {
			assert.Equal(t, tc.Name, nf.Provider)
			assert.Equal(t, missingKey, nf.Key)
		}

		meta, err := tc.Provider.Describe(ctx, ref)
		require.NoError(t, err)
		assert.False(t, meta.Exists)
	})

	if tc.SkipConcurrency || testing.Short() {
		return
	}

	t.Run("Concurrency", func(t *testing.T) {
		runConcurrently(t, 25, func(i int) error {
			key := keys[i%len(keys)]
			ref := provider.Reference{Provider: tc.Name, Key: key}

			secret, err := tc.Provider.Resolve(context.Background(), ref)
			if err != nil {
				return fmt.Errorf("Resolve(%q): %w", key, err)
			}
			if secret.Value != tc.TestData[key].Value {
				return fmt.Errorf("Resolve(%q) returned the wrong value", key)
			}
			if _, err := tc.Provider.Describe(context.Background(), ref); err != nil {
				return fmt.Errorf("Describe(%q): %w", key, err)
			}
			return nil
		})
	})
}

func contractContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func runConcurrently(t *testing.T, n int, fn func(i int) error) {
	t.Helper()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				errs = append(errs, err.Error())
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("%d of %d concurrent calls failed:\n%s", len(errs), n, strings.Join(errs, "\n"))
	}
}

func sortedKeys(m map[string]provider.SecretValue) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DefinitionLoader.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, want map[string]domain.Definition) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for name, expected := range want {
			got, err := loader.Load(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", name, err)
			}
			if got.Name != expected.Name {
				t.Errorf("name mismatch for %s. got %q, want %q", name, got.Name, expected.Name)
			}
			if got.NavigationRule != expected.NavigationRule {
				t.Errorf("rule mismatch for %s. got %q, want %q", name, got.NavigationRule, expected.NavigationRule)
			}
			if len(got.Values) != len(expected.Values) {
				t.Fatalf("values mismatch for %s. got %d, want %d", name, len(got.Values), len(expected.Values))
			}
			for i := range expected.Values {
				if got.Values[i].Value != expected.Values[i].Value || got.Values[i].Label != expected.Values[i].Label {
					t.Errorf("value %d mismatch for %s. got %+v, want %+v", i, name, got.Values[i], expected.Values[i])
				}
				if len(got.Values[i].ValidFor) != len(expected.Values[i].ValidFor) {
					t.Errorf("valid_for %d mismatch for %s. got %v, want %v", i, name, got.Values[i].ValidFor, expected.Values[i].ValidFor)
				}
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-definition")
		if !errors.Is(err, domain.ErrDefinitionNotFound) {
			t.Errorf("expected ErrDefinitionNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}
		if len(names) != len(want) {
			t.Errorf("expected %d definitions, got %d", len(want), len(names))
		}
		lookup := make(map[string]bool)
		for _, n := range names {
			lookup[n] = true
		}
		for n := range want {
			if !lookup[n] {
				t.Errorf("definition %s missing from list", n)
			}
		}
	})
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDefinitionStoreContract runs a suite of tests to verify that a DefinitionStore
// implementation adheres to the defined interface contract.
func RunDefinitionStoreContract(t *testing.T, store DefinitionStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func(name string) domain.Definition {
		return domain.Definition{
			Name:        name,
			Description: "contract fixture",
			Values: []domain.PicklistValue{
				{Label: "New", Value: "new"},
				{Label: "Active", Value: "active", ValidFor: []int{0}},
				{Label: "Closed", Value: "closed", ValidFor: []int{1}},
			},
			NavigationRule: "closed=!{new}",
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		def := sample(name)
		require.NoError(t, store.Save(ctx, def), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, def, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		def := sample(name)
		def.NavigationRule = "new={active}"
		require.NoError(t, store.Save(ctx, def))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "new={active}", loaded.NavigationRule)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(name)))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound, "Load after Delete should return ErrDefinitionNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, sample(id2)))
		require.NoError(t, store.Save(ctx, sample(id1)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsIncreasing(t, names, "List must be sorted")
	})
}

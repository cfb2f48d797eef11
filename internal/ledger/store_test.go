package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	store := NewStore()
	store.InsertPool(FungiblePool{
		ID:            "p1",
		Category:      "Uniform - Jacket",
		Size:          "M",
		TotalQuantity: 10,
		InUse:         1,
		Assignments:   []Assignment{{AssigneeID: "jane", Quantity: 1, AssignedAt: time.Now()}},
	})

	snap, err := store.GetPool("p1")
	require.NoError(t, err)

	// Mutating the snapshot must not leak into the store.
	snap.Assignments[0].Quantity = 99
	snap.TotalQuantity = 0

	fresh, err := store.GetPool("p1")
	require.NoError(t, err)
	require.Equal(t, 10, fresh.TotalQuantity)
	require.Equal(t, 1, fresh.Assignments[0].Quantity)
}

func TestStoreUpdateRollsBackOnError(t *testing.T) {
	store := NewStore()
	store.InsertPool(FungiblePool{ID: "p1", Category: "Uniform - Jacket", Size: "M", TotalQuantity: 10})

	boom := errors.New("boom")
	_, err := store.UpdatePool("p1", func(pool *FungiblePool) error {
		pool.TotalQuantity = 0
		pool.InUse = 5
		return boom
	})
	require.ErrorIs(t, err, boom)

	pool, err := store.GetPool("p1")
	require.NoError(t, err)
	require.Equal(t, 10, pool.TotalQuantity)
	require.Zero(t, pool.InUse)
}

func TestStoreItemCodeUniqueness(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.InsertItem(DiscreteItem{ID: "i1", Name: "Piano", Type: "Piano", Code: "PNO-001", Condition: ConditionGood}))
	err := store.InsertItem(DiscreteItem{ID: "i2", Name: "Other", Type: "Piano", Code: "PNO-001", Condition: ConditionGood})
	require.ErrorIs(t, err, ErrDuplicateCode)

	items := store.ListItems()
	require.Len(t, items, 1)
}

func TestStoreListKeepsCreationOrder(t *testing.T) {
	store := NewStore()
	store.InsertPool(FungiblePool{ID: "p1", Category: "a", Size: "M"})
	store.InsertPool(FungiblePool{ID: "p2", Category: "b", Size: "M"})
	store.InsertPool(FungiblePool{ID: "p3", Category: "c", Size: "M"})

	pools := store.ListPools()
	require.Len(t, pools, 3)
	require.Equal(t, "p1", pools[0].ID)
	require.Equal(t, "p2", pools[1].ID)
	require.Equal(t, "p3", pools[2].ID)
}

func TestStoreMissingResources(t *testing.T) {
	store := NewStore()

	_, err := store.GetPool("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.UpdateItem("missing", func(*DiscreteItem) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

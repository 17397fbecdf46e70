package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	tomato := createProduct(t, db, "Tomato")
	userID := uint(1)

	id, err := svc.Add(userID, &InventoryItemInput{ProductID: tomato, Quantity: 500})
	require.NoError(t, err)

	items, err := svc.List(userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tomato, items[0].ProductID)
	assert.Equal(t, 500.0, items[0].Quantity)

	// Another user's inventory stays empty.
	items, err = svc.List(2)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = svc.Update(id, userID, &InventoryItemInput{ProductID: tomato, Quantity: 250})
	require.NoError(t, err)
	items, _ = svc.List(userID)
	assert.Equal(t, 250.0, items[0].Quantity)

	// A stranger can neither update nor delete the item.
	assert.ErrorIs(t, svc.Update(id, 2, &InventoryItemInput{ProductID: tomato}), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(id, 2), ErrNotFound)

	require.NoError(t, svc.Delete(id, userID))
	assert.ErrorIs(t, svc.Delete(id, userID), ErrNotFound)
}

func TestInventoryValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	tomato := createProduct(t, db, "Tomato")

	_, err := svc.Add(1, &InventoryItemInput{ProductID: tomato, Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(1, &InventoryItemInput{ProductID: 9999, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(1, &InventoryItemInput{ProductID: tomato, Quantity: 1, UnitID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryProductIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	tomato := createProduct(t, db, "Tomato")
	onion := createProduct(t, db, "Onion")
	userID := uint(1)

	for _, pid := range []uint{tomato, tomato, onion} {
		_, err := svc.Add(userID, &InventoryItemInput{ProductID: pid, Quantity: 100})
		require.NoError(t, err)
	}

	ids, err := svc.ProductIDs(userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{tomato, onion}, ids)
}

func TestConsumedLog(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsumedService(db)

	tomato := createProduct(t, db, "Tomato")
	userID := uint(1)

	today := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	idToday, err := svc.Add(userID, &ConsumedFoodInput{ProductID: tomato, Quantity: 80, ConsumedAt: today})
	require.NoError(t, err)
	_, err = svc.Add(userID, &ConsumedFoodInput{ProductID: tomato, Quantity: 40, ConsumedAt: yesterday})
	require.NoError(t, err)

	entries, err := svc.ListByDay(userID, today)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, idToday, entries[0].ID)
	assert.Equal(t, 80.0, entries[0].Quantity)

	// Another user sees nothing.
	entries, err = svc.ListByDay(2, today)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, svc.Delete(idToday, userID))
	assert.ErrorIs(t, svc.Delete(idToday, userID), ErrNotFound)
}

func TestConsumedDefaultsTimestamp(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsumedService(db)

	tomato := createProduct(t, db, "Tomato")

	id, err := svc.Add(1, &ConsumedFoodInput{ProductID: tomato, Quantity: 10})
	require.NoError(t, err)

	entries, err := svc.ListByDay(1, time.Now())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.WithinDuration(t, time.Now(), entries[0].ConsumedAt, time.Minute)
}

package sync

import (
	"context"
	"testing"

	"storesync/internal/feed"
	"storesync/internal/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func destWithVariant(sku string, variantID, inventoryItemID int64, available int) *fakeDest {
	dest := newFakeDest()
	dest.products = []shopify.Product{{
		ID: 500, Handle: "gold-hoop", Title: "Gold Hoop",
		Variants: []shopify.Variant{{ID: variantID, Sku: sku, Price: "25.00", InventoryItemID: inventoryItemID}},
	}}
	dest.inventory[inventoryItemID] = available
	return dest
}

func TestInventorySync_AbsoluteSet(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop", enabledVariant("GH-01", "19.00", "25.00", 7)),
	}}
	dest := destWithVariant("GH-01", 501, 601, 10)
	engine := NewInventoryEngine(feedSrc, dest, "Mirror Warehouse", 50, testLogger())

	result, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Synced)
	// Absolute set: destination shows exactly the source quantity, not a delta.
	assert.Equal(t, 7, dest.inventory[601])
}

func TestInventorySync_LocationMatchIsCaseInsensitive(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop", enabledVariant("GH-01", "19.00", "25.00", 7)),
	}}
	dest := destWithVariant("GH-01", 501, 601, 10)
	engine := NewInventoryEngine(feedSrc, dest, "mirror warehouse", 50, testLogger())

	result, err := engine.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
}

func TestInventorySync_MissingLocationIsFatal(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop", enabledVariant("GH-01", "19.00", "25.00", 7)),
	}}
	dest := destWithVariant("GH-01", 501, 601, 10)
	engine := NewInventoryEngine(feedSrc, dest, "Nowhere", 50, testLogger())

	_, err := engine.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere")
	// Nothing may have been pushed before the configuration error.
	assert.Equal(t, 10, dest.inventory[601])
}

func TestInventorySync_SkipsUnmatchedSku(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop",
			enabledVariant("GH-01", "19.00", "25.00", 7),
			enabledVariant("GH-02", "19.00", "25.00", 4),
		),
	}}
	dest := destWithVariant("GH-01", 501, 601, 10)
	engine := NewInventoryEngine(feedSrc, dest, "Mirror Warehouse", 50, testLogger())

	result, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 7, dest.inventory[601])
}

func TestInventorySync_PerItemFailureDoesNotAbort(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop", enabledVariant("GH-01", "19.00", "25.00", 7)),
		catalogEntry("silver-stud", "Silver Stud", enabledVariant("SS-01", "9.00", "12.00", 3)),
	}}
	dest := newFakeDest()
	dest.products = []shopify.Product{
		{ID: 500, Handle: "gold-hoop", Variants: []shopify.Variant{{ID: 501, Sku: "GH-01", Price: "25.00", InventoryItemID: 601}}},
		{ID: 510, Handle: "silver-stud", Variants: []shopify.Variant{{ID: 511, Sku: "SS-01", Price: "12.00", InventoryItemID: 611}}},
	}
	dest.failSetForItem = map[int64]bool{601: true}
	engine := NewInventoryEngine(feedSrc, dest, "Mirror Warehouse", 50, testLogger())

	result, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Synced)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "gold-hoop", result.Failed[0].Handle)
	assert.Equal(t, 3, dest.inventory[611])
}

func TestInventorySync_NegativeQuantityClampedToZero(t *testing.T) {
	feedSrc := &fakeFeed{entries: []feed.CatalogEntry{
		catalogEntry("gold-hoop", "Gold Hoop", enabledVariant("GH-01", "19.00", "25.00", -3)),
	}}
	dest := destWithVariant("GH-01", 501, 601, 10)
	engine := NewInventoryEngine(feedSrc, dest, "Mirror Warehouse", 50, testLogger())

	result, err := engine.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, dest.inventory[601])
}

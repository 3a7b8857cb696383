package sync

import (
	"context"
	"testing"

	"storesync/internal/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorEngine(source *fakeSource) *OrderEngine {
	return NewOrderEngine(source, "mirror@example.com", "storesync-mirror", testLogger())
}

func TestMirror_OrderWithDiscount(t *testing.T) {
	source := &fakeSource{variants: map[string]*shopify.VariantMatch{
		"GH-01": {ID: "gid://shopify/ProductVariant/111", Sku: "GH-01", Price: "25.00"},
	}}
	engine := mirrorEngine(source)

	order := &shopify.Order{
		ID:   7001,
		Name: "#D1001",
		LineItems: []shopify.LineItem{
			{Sku: "GH-01", Quantity: 2, Price: "20.00"},
		},
	}

	result, err := engine.Mirror(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, StatusOrderMirrored, result.Status)
	assert.NotEmpty(t, result.DraftOrderID)
	assert.Equal(t, "#1042", result.OrderName)

	require.Len(t, source.draftRequests, 1)
	req := source.draftRequests[0]
	assert.Equal(t, "mirror@example.com", req.Email)
	assert.Equal(t, []string{"storesync-mirror"}, req.Tags)
	assert.Contains(t, req.Note, "#D1001")

	require.Len(t, req.Lines, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/111", req.Lines[0].VariantID)
	assert.Equal(t, 2, req.Lines[0].Quantity)
	assert.Equal(t, "20.00", req.Lines[0].DiscountPercent)

	assert.Equal(t, 1, source.completions)
}

func TestMirror_NoDiscountWhenPaidMatchesBase(t *testing.T) {
	source := &fakeSource{variants: map[string]*shopify.VariantMatch{
		"GH-01": {ID: "gid://shopify/ProductVariant/111", Sku: "GH-01", Price: "25.00"},
	}}
	engine := mirrorEngine(source)

	order := &shopify.Order{Name: "#D1", LineItems: []shopify.LineItem{
		{Sku: "GH-01", Quantity: 1, Price: "25.00"},
	}}

	result, err := engine.Mirror(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, StatusOrderMirrored, result.Status)
	assert.Empty(t, source.draftRequests[0].Lines[0].DiscountPercent)
}

func TestMirror_DropsUnresolvableLines(t *testing.T) {
	source := &fakeSource{variants: map[string]*shopify.VariantMatch{
		"GH-01": {ID: "gid://shopify/ProductVariant/111", Sku: "GH-01", Price: "25.00"},
	}}
	engine := mirrorEngine(source)

	order := &shopify.Order{Name: "#D2", LineItems: []shopify.LineItem{
		{Sku: "GH-01", Quantity: 1, Price: "20.00"},
		{Sku: "UNKNOWN", Quantity: 1, Price: "5.00"},
		{Sku: "", Quantity: 1, Price: "5.00"},
	}}

	result, err := engine.Mirror(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, StatusOrderMirrored, result.Status)
	assert.Len(t, result.Skipped, 2)
	require.Len(t, source.draftRequests, 1)
	assert.Len(t, source.draftRequests[0].Lines, 1)
}

func TestMirror_NoSkuLines(t *testing.T) {
	source := &fakeSource{}
	engine := mirrorEngine(source)

	order := &shopify.Order{Name: "#D3", LineItems: []shopify.LineItem{
		{Sku: "", Quantity: 1, Price: "5.00"},
	}}

	result, err := engine.Mirror(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, StatusNoSku, result.Status)
	assert.Empty(t, source.draftRequests)
}

func TestMirror_NoMatchingItems(t *testing.T) {
	source := &fakeSource{}
	engine := mirrorEngine(source)

	order := &shopify.Order{Name: "#D4", LineItems: []shopify.LineItem{
		{Sku: "GHOST-01", Quantity: 1, Price: "5.00"},
	}}

	result, err := engine.Mirror(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, StatusNoMatchingItems, result.Status)
	assert.Empty(t, source.draftRequests)
}

func TestMirror_CompletionFailureSurfacesDraft(t *testing.T) {
	source := &fakeSource{
		variants: map[string]*shopify.VariantMatch{
			"GH-01": {ID: "gid://shopify/ProductVariant/111", Sku: "GH-01", Price: "25.00"},
		},
		failComplete: true,
	}
	engine := mirrorEngine(source)

	order := &shopify.Order{Name: "#D5", LineItems: []shopify.LineItem{
		{Sku: "GH-01", Quantity: 1, Price: "20.00"},
	}}

	result, err := engine.Mirror(context.Background(), order)
	require.Error(t, err)

	// The draft still exists on the source store; the result hands the
	// operator its identifiers instead of rolling it back.
	require.NotNil(t, result)
	assert.NotEmpty(t, result.DraftOrderID)
	assert.Empty(t, result.OrderID)
}

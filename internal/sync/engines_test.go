package sync

import (
	"context"
	"errors"
	"fmt"

	"storesync/internal/feed"
	"storesync/internal/logger"
	"storesync/internal/shopify"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

// fakeFeed serves a fixed feed.
type fakeFeed struct {
	entries []feed.CatalogEntry
	err     error
	loads   int
}

func (f *fakeFeed) Load(ctx context.Context) ([]feed.CatalogEntry, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// fakeDest is an in-memory destination store. Creates mutate the catalog
// so a second Plan sees the result of the first Apply.
type fakeDest struct {
	products  []shopify.Product
	locations []shopify.Location

	failCreateHandles map[string]bool
	failSetForItem    map[int64]bool

	nextID         int64
	tracked        []int64
	inventory      map[int64]int // inventory item ID -> available
	priceUpdates   int
	createAttempts int
}

func newFakeDest() *fakeDest {
	return &fakeDest{
		nextID:    1000,
		inventory: make(map[int64]int),
		locations: []shopify.Location{{ID: 77, Name: "Mirror Warehouse", Active: true}},
	}
}

func (d *fakeDest) GetProducts(ctx context.Context, limit int, pageInfo string) (*shopify.ProductsResponse, error) {
	return &shopify.ProductsResponse{Products: d.products}, nil
}

func (d *fakeDest) CreateProduct(ctx context.Context, product *shopify.NewProduct) (*shopify.Product, error) {
	d.createAttempts++
	if d.failCreateHandles[product.Handle] {
		return nil, errors.New("boom: create rejected")
	}

	d.nextID++
	created := shopify.Product{
		ID:     d.nextID,
		Title:  product.Title,
		Handle: product.Handle,
		Status: product.Status,
	}
	for _, v := range product.Variants {
		d.nextID++
		created.Variants = append(created.Variants, shopify.Variant{
			ID:                d.nextID,
			ProductID:         created.ID,
			Sku:               v.Sku,
			Price:             v.Price,
			InventoryItemID:   d.nextID + 500000,
			InventoryQuantity: v.InventoryQuantity,
		})
	}
	d.products = append(d.products, created)
	return &created, nil
}

func (d *fakeDest) UpdateVariantPrices(ctx context.Context, productID int64, prices []shopify.VariantPriceUpdate) error {
	d.priceUpdates++
	for i := range d.products {
		if d.products[i].ID != productID {
			continue
		}
		for _, update := range prices {
			for j := range d.products[i].Variants {
				if d.products[i].Variants[j].ID == update.ID {
					d.products[i].Variants[j].Price = update.Price
				}
			}
		}
		return nil
	}
	return fmt.Errorf("no product %d", productID)
}

func (d *fakeDest) SetInventoryTracked(ctx context.Context, inventoryItemID int64) error {
	d.tracked = append(d.tracked, inventoryItemID)
	return nil
}

func (d *fakeDest) GetLocations(ctx context.Context) ([]shopify.Location, error) {
	return d.locations, nil
}

func (d *fakeDest) SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error {
	if d.failSetForItem[inventoryItemID] {
		return errors.New("boom: inventory set rejected")
	}
	d.inventory[inventoryItemID] = available
	return nil
}

// fakeSource resolves variants by SKU and records draft order activity.
type fakeSource struct {
	variants map[string]*shopify.VariantMatch

	draftRequests []*shopify.DraftOrderRequest
	failComplete  bool
	completions   int
}

func (s *fakeSource) FindVariantBySKU(ctx context.Context, sku string) (*shopify.VariantMatch, error) {
	return s.variants[sku], nil
}

func (s *fakeSource) CreateDraftOrder(ctx context.Context, req *shopify.DraftOrderRequest) (*shopify.DraftOrder, error) {
	s.draftRequests = append(s.draftRequests, req)
	return &shopify.DraftOrder{
		ID:   fmt.Sprintf("gid://shopify/DraftOrder/%d", len(s.draftRequests)),
		Name: fmt.Sprintf("#D%d", len(s.draftRequests)),
	}, nil
}

func (s *fakeSource) CompleteDraftOrder(ctx context.Context, draftOrderID string) (*shopify.CompletedOrder, error) {
	if s.failComplete {
		return nil, errors.New("boom: completion rejected")
	}
	s.completions++
	return &shopify.CompletedOrder{
		ID:   "gid://shopify/Order/9001",
		Name: "#1042",
	}, nil
}

func enabledVariant(sku, price, resale string, qty int) feed.VariantEntry {
	if resale == "" {
		resale = price
	}
	return feed.VariantEntry{
		ID:          int64(len(sku)) + 1,
		Sku:         sku,
		Price:       price,
		ResalePrice: resale,
		Quantity:    qty,
		Enabled:     true,
	}
}

func catalogEntry(handle, title string, variants ...feed.VariantEntry) feed.CatalogEntry {
	return feed.CatalogEntry{
		ID:       42,
		Title:    title,
		Handle:   handle,
		Status:   "active",
		Variants: variants,
	}
}

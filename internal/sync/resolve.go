package sync

import (
	"context"
	"fmt"
	"strings"

	"storesync/internal/feed"
	"storesync/internal/shopify"
)

// SourceStore is what the order mirror needs from the source store.
type SourceStore interface {
	FindVariantBySKU(ctx context.Context, sku string) (*shopify.VariantMatch, error)
	CreateDraftOrder(ctx context.Context, req *shopify.DraftOrderRequest) (*shopify.DraftOrder, error)
	CompleteDraftOrder(ctx context.Context, draftOrderID string) (*shopify.CompletedOrder, error)
}

// DestinationStore is what the product and inventory engines need from the
// destination store.
type DestinationStore interface {
	GetProducts(ctx context.Context, limit int, pageInfo string) (*shopify.ProductsResponse, error)
	CreateProduct(ctx context.Context, product *shopify.NewProduct) (*shopify.Product, error)
	UpdateVariantPrices(ctx context.Context, productID int64, prices []shopify.VariantPriceUpdate) error
	SetInventoryTracked(ctx context.Context, inventoryItemID int64) error
	GetLocations(ctx context.Context) ([]shopify.Location, error)
	SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error
}

// FeedSource loads the enabled-for-sync source catalog.
type FeedSource interface {
	Load(ctx context.Context) ([]feed.CatalogEntry, error)
}

// DestVariantRef locates one destination variant resolved by SKU.
type DestVariantRef struct {
	ProductID       int64
	VariantID       int64
	InventoryItemID int64
	Price           string
	Handle          string
}

// CatalogIndex indexes a fetched destination catalog snapshot by handle
// and SKU. Product sync, inventory sync, and order mirroring all resolve
// through this one index instead of re-implementing the join.
type CatalogIndex struct {
	byHandle map[string]*shopify.Product
	bySku    map[string]DestVariantRef

	// CollidingSkus lists SKUs seen on more than one destination variant.
	// A collision is undefined behaviour for matching; callers log it.
	CollidingSkus []string
}

// FetchDestinationCatalog reads the full destination catalog, page by page.
func FetchDestinationCatalog(ctx context.Context, dest DestinationStore, pageSize int) ([]shopify.Product, error) {
	var products []shopify.Product
	pageInfo := ""
	for {
		page, err := dest.GetProducts(ctx, pageSize, pageInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch destination products: %w", err)
		}
		products = append(products, page.Products...)
		if page.NextPageInfo == "" {
			break
		}
		pageInfo = page.NextPageInfo
	}
	return products, nil
}

// NewCatalogIndex builds handle and SKU indexes over a catalog snapshot.
func NewCatalogIndex(products []shopify.Product) *CatalogIndex {
	idx := &CatalogIndex{
		byHandle: make(map[string]*shopify.Product, len(products)),
		bySku:    make(map[string]DestVariantRef),
	}
	for i := range products {
		product := &products[i]
		idx.byHandle[product.Handle] = product
		for _, variant := range product.Variants {
			sku := strings.TrimSpace(variant.Sku)
			if sku == "" {
				continue
			}
			if _, exists := idx.bySku[sku]; exists {
				idx.CollidingSkus = append(idx.CollidingSkus, sku)
				continue
			}
			idx.bySku[sku] = DestVariantRef{
				ProductID:       product.ID,
				VariantID:       variant.ID,
				InventoryItemID: variant.InventoryItemID,
				Price:           variant.Price,
				Handle:          product.Handle,
			}
		}
	}
	return idx
}

// ByHandle resolves a destination product by its handle.
func (idx *CatalogIndex) ByHandle(handle string) (*shopify.Product, bool) {
	p, ok := idx.byHandle[handle]
	return p, ok
}

// BySku resolves a destination variant by SKU.
func (idx *CatalogIndex) BySku(sku string) (DestVariantRef, bool) {
	ref, ok := idx.bySku[strings.TrimSpace(sku)]
	return ref, ok
}

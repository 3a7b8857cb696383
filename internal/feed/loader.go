package feed

import (
	"context"
	"fmt"
	"strings"

	"storesync/internal/logger"
	"storesync/internal/shopify"
)

// Metafield namespace and keys for the per-variant sync annotations on the
// source store.
const (
	MetafieldNamespace = "storesync"
	KeyEnabled         = "enabled"
	KeyResalePrice     = "resale_price"
)

// CatalogEntry is one active source product with its sync annotations
// resolved. Entries are re-fetched on every load; nothing is cached.
type CatalogEntry struct {
	ID       int64
	Title    string
	Handle   string
	BodyHTML string
	Status   string
	Images   []string
	Variants []VariantEntry
}

// VariantEntry is one purchasable unit within a CatalogEntry.
type VariantEntry struct {
	ID          int64
	Sku         string
	Title       string
	Price       string // source price
	ResalePrice string // destination price, defaults to Price
	Quantity    int
	Enabled     bool
}

// SourceCatalog is the subset of the source store client the loader needs.
type SourceCatalog interface {
	GetProducts(ctx context.Context, limit int, pageInfo string) (*shopify.ProductsResponse, error)
	GetVariantMetafields(ctx context.Context, variantID int64) ([]shopify.Metafield, error)
}

// Loader reads the full sync feed from the source store. Loading is
// read-only and safe to run concurrently with sync operations.
type Loader struct {
	source   SourceCatalog
	pageSize int
	logger   *logger.Logger
}

func NewLoader(source SourceCatalog, pageSize int, logger *logger.Logger) *Loader {
	return &Loader{
		source:   source,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Load fetches every active product on the source store and resolves each
// variant's sync annotations. Variants without annotations are disabled.
func (l *Loader) Load(ctx context.Context) ([]CatalogEntry, error) {
	var entries []CatalogEntry

	pageInfo := ""
	for {
		page, err := l.source.GetProducts(ctx, l.pageSize, pageInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch source products: %w", err)
		}

		for _, product := range page.Products {
			if !strings.EqualFold(product.Status, "active") {
				continue
			}
			entry, err := l.buildEntry(ctx, &product)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}

		if page.NextPageInfo == "" {
			break
		}
		pageInfo = page.NextPageInfo
	}

	return entries, nil
}

func (l *Loader) buildEntry(ctx context.Context, product *shopify.Product) (CatalogEntry, error) {
	entry := CatalogEntry{
		ID:       product.ID,
		Title:    product.Title,
		Handle:   product.Handle,
		BodyHTML: product.BodyHTML,
		Status:   strings.ToLower(product.Status),
	}
	for _, image := range product.Images {
		entry.Images = append(entry.Images, image.Src)
	}

	for _, variant := range product.Variants {
		metafields, err := l.source.GetVariantMetafields(ctx, variant.ID)
		if err != nil {
			return CatalogEntry{}, fmt.Errorf("failed to fetch metafields for variant %d (%s): %w",
				variant.ID, variant.Sku, err)
		}

		ve := VariantEntry{
			ID:          variant.ID,
			Sku:         variant.Sku,
			Title:       variant.Title,
			Price:       variant.Price,
			ResalePrice: variant.Price,
			Quantity:    variant.InventoryQuantity,
		}
		for _, mf := range metafields {
			if mf.Namespace != MetafieldNamespace {
				continue
			}
			switch mf.Key {
			case KeyEnabled:
				ve.Enabled = isTruthy(mf.Value)
			case KeyResalePrice:
				if v := strings.TrimSpace(mf.Value); v != "" {
					ve.ResalePrice = v
				}
			}
		}
		entry.Variants = append(entry.Variants, ve)
	}

	return entry, nil
}

// EnabledVariants returns the variants flagged for sync.
func (e *CatalogEntry) EnabledVariants() []VariantEntry {
	var enabled []VariantEntry
	for _, v := range e.Variants {
		if v.Enabled {
			enabled = append(enabled, v)
		}
	}
	return enabled
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

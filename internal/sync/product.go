package sync

import (
	"context"

	"storesync/internal/feed"
	"storesync/internal/logger"
	"storesync/internal/shopify"
)

// ProductCreate is one feed product missing from the destination.
type ProductCreate struct {
	Entry    feed.CatalogEntry
	Variants []feed.VariantEntry // enabled variants with a SKU
}

// PriceChange is one variant price delta inside a product update.
type PriceChange struct {
	VariantID int64
	Sku       string
	OldPrice  string
	NewPrice  string
}

// ProductUpdate is one destination product whose prices drifted from the
// feed's destination price overrides.
type ProductUpdate struct {
	DestProductID int64
	Handle        string
	Changes       []PriceChange
}

// SyncPlan is the diff between the feed and the destination catalog. It is
// ephemeral: either applied or discarded as a dry-run report.
type SyncPlan struct {
	ToCreate []ProductCreate
	ToUpdate []ProductUpdate
}

// Empty reports whether applying the plan would be a no-op.
func (p *SyncPlan) Empty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0
}

// ItemFailure records one per-product failure during Apply.
type ItemFailure struct {
	Handle string `json:"handle"`
	Stage  string `json:"stage"` // "create", "update", "track-inventory"
	Error  string `json:"error"`
}

// ApplyResult aggregates the outcome of applying a plan. Per-product
// failures never abort the rest of the plan.
type ApplyResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Failed  []ItemFailure `json:"failed,omitempty"`
}

// ProductEngine reconciles the source feed against the destination catalog.
type ProductEngine struct {
	feed     FeedSource
	dest     DestinationStore
	pageSize int
	logger   *logger.Logger
}

func NewProductEngine(feed FeedSource, dest DestinationStore, pageSize int, logger *logger.Logger) *ProductEngine {
	return &ProductEngine{
		feed:     feed,
		dest:     dest,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Plan computes the diff between the feed and the destination catalog.
// Matching is by handle at the product level and SKU at the variant
// level; the destination never sees source IDs. Plan performs no writes.
func (e *ProductEngine) Plan(ctx context.Context) (*SyncPlan, error) {
	entries, err := e.feed.Load(ctx)
	if err != nil {
		return nil, err
	}

	destProducts, err := FetchDestinationCatalog(ctx, e.dest, e.pageSize)
	if err != nil {
		return nil, err
	}
	index := NewCatalogIndex(destProducts)
	for _, sku := range index.CollidingSkus {
		e.logger.Warn("destination SKU %q appears on more than one variant; matches for it are unreliable", sku)
	}

	plan := &SyncPlan{}
	for _, entry := range entries {
		variants := e.syncableVariants(entry)
		if len(variants) == 0 {
			continue
		}

		destProduct, exists := index.ByHandle(entry.Handle)
		if !exists {
			plan.ToCreate = append(plan.ToCreate, ProductCreate{Entry: entry, Variants: variants})
			continue
		}

		// A pre-existing destination product with the same handle but a
		// different title was probably created outside this sync; the
		// update below will touch it anyway. Known operational constraint.
		if destProduct.Title != entry.Title {
			e.logger.Warn("handle %q matches destination product %d with different title %q (source %q)",
				entry.Handle, destProduct.ID, destProduct.Title, entry.Title)
		}

		update := ProductUpdate{DestProductID: destProduct.ID, Handle: entry.Handle}
		for _, variant := range variants {
			ref, ok := index.BySku(variant.Sku)
			if !ok {
				e.logger.Warn("no destination variant with SKU %q under handle %q; skipping price check",
					variant.Sku, entry.Handle)
				continue
			}
			if PricesEqual(ref.Price, variant.ResalePrice) {
				continue
			}
			update.Changes = append(update.Changes, PriceChange{
				VariantID: ref.VariantID,
				Sku:       variant.Sku,
				OldPrice:  ref.Price,
				NewPrice:  variant.ResalePrice,
			})
		}
		if len(update.Changes) > 0 {
			plan.ToUpdate = append(plan.ToUpdate, update)
		}
	}

	return plan, nil
}

// Apply executes a plan against the destination. Each create and update is
// independently fallible; one product's failure never aborts the rest.
func (e *ProductEngine) Apply(ctx context.Context, plan *SyncPlan) *ApplyResult {
	result := &ApplyResult{}

	for _, create := range plan.ToCreate {
		created, err := e.dest.CreateProduct(ctx, buildNewProduct(&create))
		if err != nil {
			e.logger.Error("failed to create destination product handle=%s: %v", create.Entry.Handle, err)
			result.Failed = append(result.Failed, ItemFailure{
				Handle: create.Entry.Handle, Stage: "create", Error: err.Error(),
			})
			continue
		}
		result.Created++
		e.logger.Info("created destination product handle=%s id=%d variants=%d",
			created.Handle, created.ID, len(created.Variants))

		// Newly created variants are untracked and would sell without
		// limit; force tracking on as an explicit follow-up step.
		for _, variant := range created.Variants {
			if err := e.dest.SetInventoryTracked(ctx, variant.InventoryItemID); err != nil {
				e.logger.Error("failed to enable inventory tracking handle=%s sku=%s: %v",
					created.Handle, variant.Sku, err)
				result.Failed = append(result.Failed, ItemFailure{
					Handle: create.Entry.Handle, Stage: "track-inventory", Error: err.Error(),
				})
			}
		}
	}

	for _, update := range plan.ToUpdate {
		prices := make([]shopify.VariantPriceUpdate, 0, len(update.Changes))
		for _, change := range update.Changes {
			prices = append(prices, shopify.VariantPriceUpdate{ID: change.VariantID, Price: change.NewPrice})
		}
		if err := e.dest.UpdateVariantPrices(ctx, update.DestProductID, prices); err != nil {
			e.logger.Error("failed to update destination product handle=%s id=%d: %v",
				update.Handle, update.DestProductID, err)
			result.Failed = append(result.Failed, ItemFailure{
				Handle: update.Handle, Stage: "update", Error: err.Error(),
			})
			continue
		}
		result.Updated++
		e.logger.Info("updated destination prices handle=%s changes=%d", update.Handle, len(update.Changes))
	}

	return result
}

// syncableVariants filters an entry to enabled variants that carry a SKU.
// A variant without a SKU can never be matched across stores and is
// permanently excluded.
func (e *ProductEngine) syncableVariants(entry feed.CatalogEntry) []feed.VariantEntry {
	var out []feed.VariantEntry
	for _, variant := range entry.EnabledVariants() {
		if variant.Sku == "" {
			e.logger.Warn("variant %d of %q is enabled but has no SKU; it cannot be synced",
				variant.ID, entry.Handle)
			continue
		}
		out = append(out, variant)
	}
	return out
}

func buildNewProduct(create *ProductCreate) *shopify.NewProduct {
	product := &shopify.NewProduct{
		Title:    create.Entry.Title,
		BodyHTML: create.Entry.BodyHTML,
		Handle:   create.Entry.Handle,
		Status:   "active",
	}
	for _, src := range create.Entry.Images {
		product.Images = append(product.Images, shopify.NewImage{Src: src})
	}
	for _, variant := range create.Variants {
		product.Variants = append(product.Variants, shopify.NewVariant{
			Title:               variant.Title,
			Price:               variant.ResalePrice,
			Sku:                 variant.Sku,
			InventoryPolicy:     "deny",
			InventoryManagement: "shopify",
			InventoryQuantity:   variant.Quantity,
		})
	}
	return product
}

// Summary renders the plan as a report structure for the admin endpoint.
func (p *SyncPlan) Summary() map[string]interface{} {
	creates := make([]map[string]interface{}, 0, len(p.ToCreate))
	for _, c := range p.ToCreate {
		creates = append(creates, map[string]interface{}{
			"handle":        c.Entry.Handle,
			"title":         c.Entry.Title,
			"variant_count": len(c.Variants),
		})
	}
	updates := make([]map[string]interface{}, 0, len(p.ToUpdate))
	for _, u := range p.ToUpdate {
		changes := make([]map[string]interface{}, 0, len(u.Changes))
		for _, ch := range u.Changes {
			changes = append(changes, map[string]interface{}{
				"sku":       ch.Sku,
				"old_price": ch.OldPrice,
				"new_price": ch.NewPrice,
			})
		}
		updates = append(updates, map[string]interface{}{
			"handle":  u.Handle,
			"changes": changes,
		})
	}
	return map[string]interface{}{
		"to_create": creates,
		"to_update": updates,
	}
}

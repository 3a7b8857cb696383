package sync

import (
	"context"
	"fmt"
	"strings"

	"storesync/internal/logger"
)

// InventoryResult aggregates one inventory push.
type InventoryResult struct {
	Synced  int           `json:"synced"`
	Skipped int           `json:"skipped"`
	Failed  []ItemFailure `json:"failed,omitempty"`
}

// InventoryEngine pushes absolute on-hand quantities from the source feed
// to the matching destination variants at one fixed location. There is no
// plan phase: recomputing an absolute set costs the same as applying it.
type InventoryEngine struct {
	feed         FeedSource
	dest         DestinationStore
	locationName string
	pageSize     int
	logger       *logger.Logger
}

func NewInventoryEngine(feed FeedSource, dest DestinationStore, locationName string, pageSize int, logger *logger.Logger) *InventoryEngine {
	return &InventoryEngine{
		feed:         feed,
		dest:         dest,
		locationName: locationName,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// Sync sets the destination quantity of every enabled, SKU-carrying feed
// variant to the source's on-hand quantity. Per-item failures are logged
// and counted without aborting the batch.
func (e *InventoryEngine) Sync(ctx context.Context) (*InventoryResult, error) {
	locationID, err := e.resolveLocation(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := e.feed.Load(ctx)
	if err != nil {
		return nil, err
	}

	destProducts, err := FetchDestinationCatalog(ctx, e.dest, e.pageSize)
	if err != nil {
		return nil, err
	}
	index := NewCatalogIndex(destProducts)

	result := &InventoryResult{}
	for _, entry := range entries {
		for _, variant := range entry.EnabledVariants() {
			if variant.Sku == "" {
				result.Skipped++
				continue
			}
			ref, ok := index.BySku(variant.Sku)
			if !ok {
				e.logger.Warn("no destination variant with SKU %q; skipping inventory push", variant.Sku)
				result.Skipped++
				continue
			}
			quantity := variant.Quantity
			if quantity < 0 {
				quantity = 0
			}
			if err := e.dest.SetInventoryLevel(ctx, locationID, ref.InventoryItemID, quantity); err != nil {
				e.logger.Error("failed to set inventory sku=%s item=%d: %v", variant.Sku, ref.InventoryItemID, err)
				result.Failed = append(result.Failed, ItemFailure{
					Handle: entry.Handle, Stage: "inventory", Error: err.Error(),
				})
				continue
			}
			result.Synced++
			e.logger.Debug("inventory set sku=%s quantity=%d", variant.Sku, quantity)
		}
	}

	e.logger.Info("inventory sync done synced=%d skipped=%d failed=%d",
		result.Synced, result.Skipped, len(result.Failed))
	return result, nil
}

// resolveLocation finds the configured destination location by exact,
// case-insensitive name. A missing location is a configuration error that
// no retry can fix.
func (e *InventoryEngine) resolveLocation(ctx context.Context) (int64, error) {
	locations, err := e.dest.GetLocations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list destination locations: %w", err)
	}
	for _, location := range locations {
		if strings.EqualFold(location.Name, e.locationName) {
			return location.ID, nil
		}
	}
	return 0, fmt.Errorf("destination location %q not found; check DEST_LOCATION_NAME", e.locationName)
}

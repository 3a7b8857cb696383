package shopify

import (
	"context"
	"fmt"
	"net/http"
)

// GetLocations fetches the store's inventory locations.
func (c *Client) GetLocations(ctx context.Context) ([]Location, error) {
	var resp struct {
		Locations []Location `json:"locations"`
	}
	if _, err := c.getWithRetry(ctx, c.restURL("locations.json"), &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// SetInventoryLevel sets the absolute available quantity of an inventory
// item at a location. This is a set, not an adjustment.
func (c *Client) SetInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, available int) error {
	payload := struct {
		LocationID      int64 `json:"location_id"`
		InventoryItemID int64 `json:"inventory_item_id"`
		Available       int   `json:"available"`
	}{
		LocationID:      locationID,
		InventoryItemID: inventoryItemID,
		Available:       available,
	}

	if err := c.do(ctx, http.MethodPost, c.restURL("inventory_levels/set.json"), payload, nil); err != nil {
		return fmt.Errorf("failed to set inventory level for item %d: %w", inventoryItemID, err)
	}
	return nil
}

// SetInventoryTracked marks an inventory item as tracked. Shopify does not
// track inventory on variants created through the product API, and an
// untracked variant sells without limit no matter what quantity was
// supplied, so this must be called explicitly after product creation.
func (c *Client) SetInventoryTracked(ctx context.Context, inventoryItemID int64) error {
	payload := struct {
		InventoryItem struct {
			ID      int64 `json:"id"`
			Tracked bool  `json:"tracked"`
		} `json:"inventory_item"`
	}{}
	payload.InventoryItem.ID = inventoryItemID
	payload.InventoryItem.Tracked = true

	url := c.restURL(fmt.Sprintf("inventory_items/%d.json", inventoryItemID))
	if err := c.do(ctx, http.MethodPut, url, payload, nil); err != nil {
		return fmt.Errorf("failed to mark inventory item %d tracked: %w", inventoryItemID, err)
	}
	return nil
}

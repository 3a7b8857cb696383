package handlers

import (
	"net/http"

	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/sync"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator-triggered reconciliation entrypoints
// used for drift correction and initial backfill outside the webhook flow.
type AdminHandler struct {
	products  *sync.ProductEngine
	inventory *sync.InventoryEngine
	publisher Publisher
	logger    *logger.Logger
}

func NewAdminHandler(products *sync.ProductEngine, inventory *sync.InventoryEngine, publisher Publisher, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		products:  products,
		inventory: inventory,
		publisher: publisher,
		logger:    logger,
	}
}

// SyncProducts runs a full product reconciliation. With ?dry_run=true the
// computed plan is returned without mutating the destination; otherwise
// the plan is applied and the full report returned, itemized failures
// included, even when some per-product operations failed.
func (h *AdminHandler) SyncProducts(c *gin.Context) {
	ctx := c.Request.Context()
	dryRun := c.Query("dry_run") == "true"

	plan, err := h.products.Plan(ctx)
	if err != nil {
		h.logger.Error("failed to compute sync plan: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sync plan"})
		return
	}

	if dryRun {
		c.JSON(http.StatusOK, gin.H{
			"mode": "report",
			"plan": plan.Summary(),
		})
		return
	}

	result := h.products.Apply(ctx, plan)
	h.publisher.Publish(ctx, events.TypeProductSync, map[string]interface{}{
		"trigger": "admin",
		"created": result.Created,
		"updated": result.Updated,
		"failed":  len(result.Failed),
	})

	c.JSON(http.StatusOK, gin.H{
		"mode":   "apply",
		"plan":   plan.Summary(),
		"result": result,
	})
}

// SyncInventory pushes current source quantities to the destination.
func (h *AdminHandler) SyncInventory(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.inventory.Sync(ctx)
	if err != nil {
		h.logger.Error("inventory sync failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.publisher.Publish(ctx, events.TypeInventorySync, map[string]interface{}{
		"trigger": "admin",
		"synced":  result.Synced,
		"skipped": result.Skipped,
		"failed":  len(result.Failed),
	})

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Health reports liveness.
func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

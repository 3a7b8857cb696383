package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/shopify"
	"storesync/internal/sync"
	"storesync/internal/webhook"

	"github.com/gin-gonic/gin"
)

// Statuses reported for handled-but-no-op product flow outcomes. The
// remaining discriminators come from the order mirror engine.
const (
	statusIgnoredTopic     = "ignored-topic"
	statusInSync           = "in-sync"
	statusProductCreated   = "product-created"
	statusProductUpdated   = "product-updated"
	statusInventoryUpdated = "inventory-updated"
)

// Publisher emits sync audit events. Satisfied by *events.Publisher.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// WebhookHandler routes inbound Shopify webhooks to the sync engines.
// Every delivery is re-verified and processed against current remote
// state, so duplicate and out-of-order deliveries converge.
type WebhookHandler struct {
	sourceVerifier *webhook.Verifier
	destVerifier   *webhook.Verifier
	products       *sync.ProductEngine
	inventory      *sync.InventoryEngine
	orders         *sync.OrderEngine
	publisher      Publisher
	logger         *logger.Logger
}

func NewWebhookHandler(
	sourceVerifier, destVerifier *webhook.Verifier,
	products *sync.ProductEngine,
	inventory *sync.InventoryEngine,
	orders *sync.OrderEngine,
	publisher Publisher,
	logger *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		sourceVerifier: sourceVerifier,
		destVerifier:   destVerifier,
		products:       products,
		inventory:      inventory,
		orders:         orders,
		publisher:      publisher,
		logger:         logger,
	}
}

// Handle processes one webhook delivery. Authentication failures return
// 401 and internal failures 500 so the sender's retry policy engages;
// every handled outcome, including no-ops, returns 200 with a status
// discriminator.
func (h *WebhookHandler) Handle(c *gin.Context) {
	topic := c.GetHeader(webhook.HeaderTopic)
	shopDomain := c.GetHeader(webhook.HeaderShopDomain)
	signature := c.GetHeader(webhook.HeaderHmac)

	if topic == "" || shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required headers"})
		return
	}

	// The raw body is required: the signature is computed over the exact
	// bytes, so nothing may parse the body first.
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	switch topic {
	case "products/create", "products/update":
		if !h.sourceVerifier.Verify(payload, signature, shopDomain) {
			h.logger.Warn("rejected %s webhook: bad signature or origin %q", topic, shopDomain)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "webhook verification failed"})
			return
		}
		h.handleProductChange(c)

	case "inventory_levels/update":
		if !h.sourceVerifier.Verify(payload, signature, shopDomain) {
			h.logger.Warn("rejected %s webhook: bad signature or origin %q", topic, shopDomain)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "webhook verification failed"})
			return
		}
		h.handleInventoryChange(c)

	case "orders/create":
		if !h.destVerifier.Verify(payload, signature, shopDomain) {
			h.logger.Warn("rejected %s webhook: bad signature or origin %q", topic, shopDomain)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "webhook verification failed"})
			return
		}
		h.handleOrderCreated(c, payload)

	default:
		h.logger.Debug("ignoring webhook topic %s", topic)
		c.JSON(http.StatusOK, gin.H{"status": statusIgnoredTopic})
	}
}

// handleProductChange reconciles the full feed against the destination.
// The webhook payload itself is ignored: recomputing from current remote
// state makes duplicate and stale deliveries converge.
func (h *WebhookHandler) handleProductChange(c *gin.Context) {
	ctx := c.Request.Context()

	plan, err := h.products.Plan(ctx)
	if err != nil {
		h.logger.Error("product reconcile failed to plan: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sync plan"})
		return
	}
	if plan.Empty() {
		c.JSON(http.StatusOK, gin.H{"status": statusInSync})
		return
	}

	result := h.products.Apply(ctx, plan)
	h.publisher.Publish(ctx, events.TypeProductSync, map[string]interface{}{
		"created": result.Created,
		"updated": result.Updated,
		"failed":  len(result.Failed),
	})

	status := statusProductUpdated
	if result.Created > 0 {
		status = statusProductCreated
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "result": result})
}

func (h *WebhookHandler) handleInventoryChange(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.inventory.Sync(ctx)
	if err != nil {
		h.logger.Error("inventory sync failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inventory sync failed"})
		return
	}
	h.publisher.Publish(ctx, events.TypeInventorySync, map[string]interface{}{
		"synced":  result.Synced,
		"skipped": result.Skipped,
		"failed":  len(result.Failed),
	})
	c.JSON(http.StatusOK, gin.H{"status": statusInventoryUpdated, "result": result})
}

func (h *WebhookHandler) handleOrderCreated(c *gin.Context, payload []byte) {
	ctx := c.Request.Context()

	var order shopify.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		h.logger.Error("failed to parse order webhook payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed order payload"})
		return
	}

	result, err := h.orders.Mirror(ctx, &order)
	if err != nil {
		h.logger.Error("order mirror failed for %s: %v", order.Name, err)
		body := gin.H{"error": "order mirror failed"}
		if result != nil && result.DraftOrderID != "" {
			// Draft exists but was not completed; hand the operator
			// enough to finish or discard it manually.
			body["draft_order_id"] = result.DraftOrderID
			body["draft_order_name"] = result.DraftOrderName
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	h.publisher.Publish(ctx, events.TypeOrderMirror, map[string]interface{}{
		"status":         result.Status,
		"order":          order.Name,
		"draft_order_id": result.DraftOrderID,
		"source_order":   result.OrderName,
	})
	c.JSON(http.StatusOK, result)
}

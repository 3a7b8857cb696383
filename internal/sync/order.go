package sync

import (
	"context"
	"fmt"

	"storesync/internal/logger"
	"storesync/internal/shopify"
)

// Mirror outcome statuses, reported to the webhook sender.
const (
	StatusOrderMirrored   = "order-mirrored"
	StatusNoSku           = "no-sku"
	StatusNoMatchingItems = "no-matching-items"
)

// SkippedLine records one destination order line that could not be mirrored.
type SkippedLine struct {
	Sku    string `json:"sku"`
	Reason string `json:"reason"`
}

// MirrorResult reports one order mirror attempt. When draft completion
// fails after creation succeeded, DraftOrderID still identifies the
// dangling draft so an operator can complete or discard it by hand.
type MirrorResult struct {
	Status         string        `json:"status"`
	DraftOrderID   string        `json:"draft_order_id,omitempty"`
	DraftOrderName string        `json:"draft_order_name,omitempty"`
	OrderID        string        `json:"order_id,omitempty"`
	OrderName      string        `json:"order_name,omitempty"`
	Skipped        []SkippedLine `json:"skipped,omitempty"`
}

// OrderEngine mirrors orders placed on the destination store back into the
// source store as payment-pending orders.
type OrderEngine struct {
	source      SourceStore
	mirrorEmail string
	mirrorTag   string
	logger      *logger.Logger
}

func NewOrderEngine(source SourceStore, mirrorEmail, mirrorTag string, logger *logger.Logger) *OrderEngine {
	return &OrderEngine{
		source:      source,
		mirrorEmail: mirrorEmail,
		mirrorTag:   mirrorTag,
		logger:      logger,
	}
}

// Mirror resolves the destination order's lines against the source store
// by SKU, creates a draft order with equivalent lines and per-line
// percentage discounts, then completes it payment-pending.
//
// Lines without a SKU, or whose SKU matches no source variant, are
// dropped with a warning; mirroring the rest is acceptable. Zero resolved
// lines aborts with StatusNoMatchingItems and no draft order.
func (e *OrderEngine) Mirror(ctx context.Context, order *shopify.Order) (*MirrorResult, error) {
	result := &MirrorResult{}

	var lines []shopify.DraftOrderLine
	sawSku := false
	for _, item := range order.LineItems {
		if item.Sku == "" {
			e.logger.Warn("order %s line %d has no SKU; dropping from mirror", order.Name, item.ID)
			result.Skipped = append(result.Skipped, SkippedLine{Reason: "no-sku"})
			continue
		}
		sawSku = true
		match, err := e.source.FindVariantBySKU(ctx, item.Sku)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source variant for SKU %q: %w", item.Sku, err)
		}
		if match == nil {
			e.logger.Warn("order %s SKU %q matches no source variant; dropping from mirror", order.Name, item.Sku)
			result.Skipped = append(result.Skipped, SkippedLine{Sku: item.Sku, Reason: "no-source-variant"})
			continue
		}

		line := shopify.DraftOrderLine{
			VariantID: match.ID,
			Quantity:  item.Quantity,
		}
		if pct := DiscountPercent(match.Price, item.Price); pct.IsPositive() {
			line.DiscountPercent = pct.StringFixed(2)
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		e.logger.Warn("order %s has no mirrorable lines", order.Name)
		if sawSku {
			result.Status = StatusNoMatchingItems
		} else {
			result.Status = StatusNoSku
		}
		return result, nil
	}

	draft, err := e.source.CreateDraftOrder(ctx, &shopify.DraftOrderRequest{
		Email: e.mirrorEmail,
		Note:  fmt.Sprintf("Mirrored from destination order %s (id %d)", order.Name, order.ID),
		Tags:  []string{e.mirrorTag},
		Lines: lines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create draft order for %s: %w", order.Name, err)
	}
	result.DraftOrderID = draft.ID
	result.DraftOrderName = draft.Name
	e.logger.Info("created draft order %s for destination order %s", draft.Name, order.Name)

	completed, err := e.source.CompleteDraftOrder(ctx, draft.ID)
	if err != nil {
		// The draft exists and is not rolled back; surface it with the
		// failure so an operator can finish or discard it.
		return result, fmt.Errorf("draft order %s created but completion failed: %w", draft.Name, err)
	}
	result.OrderID = completed.ID
	result.OrderName = completed.Name
	result.Status = StatusOrderMirrored

	e.logger.Info("mirrored destination order %s as source order %s (payment pending)",
		order.Name, completed.Name)
	return result, nil
}

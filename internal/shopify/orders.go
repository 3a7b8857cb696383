package shopify

import (
	"context"
	"errors"
	"strings"
)

type draftOrderCreateData struct {
	DraftOrderCreate struct {
		DraftOrder *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"draftOrderCreate"`
}

type draftOrderCompleteData struct {
	DraftOrderComplete struct {
		DraftOrder *struct {
			ID    string `json:"id"`
			Order *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"order"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"draftOrderComplete"`
}

// CreateDraftOrder creates a draft order from the given request.
func (c *Client) CreateDraftOrder(ctx context.Context, req *DraftOrderRequest) (*DraftOrder, error) {
	if len(req.Lines) == 0 {
		return nil, errors.New("draft order requires at least one line item")
	}

	lineItems := make([]map[string]interface{}, 0, len(req.Lines))
	for _, line := range req.Lines {
		item := map[string]interface{}{
			"variantId": line.VariantID,
			"quantity":  line.Quantity,
		}
		if line.DiscountPercent != "" {
			item["appliedDiscount"] = map[string]interface{}{
				"value":     line.DiscountPercent,
				"valueType": "PERCENTAGE",
			}
		}
		lineItems = append(lineItems, item)
	}

	input := map[string]interface{}{
		"email":     req.Email,
		"lineItems": lineItems,
	}
	if req.Note != "" {
		input["note"] = req.Note
	}
	if len(req.Tags) > 0 {
		input["tags"] = strings.Join(req.Tags, ", ")
	}

	query := `
	mutation draftOrderCreate($input: DraftOrderInput!) {
		draftOrderCreate(input: $input) {
			draftOrder { id name }
			userErrors { field message }
		}
	}`

	var data draftOrderCreateData
	err := c.graphqlRequest(ctx, query, map[string]interface{}{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if err := userErrorsToError("draftOrderCreate", data.DraftOrderCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.DraftOrderCreate.DraftOrder == nil || data.DraftOrderCreate.DraftOrder.ID == "" {
		return nil, errors.New("draftOrderCreate returned empty draft order id")
	}

	return &DraftOrder{
		ID:   data.DraftOrderCreate.DraftOrder.ID,
		Name: data.DraftOrderCreate.DraftOrder.Name,
	}, nil
}

// CompleteDraftOrder converts a draft order into a real order with payment
// pending. The resulting order is never marked paid here.
func (c *Client) CompleteDraftOrder(ctx context.Context, draftOrderID string) (*CompletedOrder, error) {
	if strings.TrimSpace(draftOrderID) == "" {
		return nil, errors.New("draft order id is required")
	}

	query := `
	mutation draftOrderComplete($id: ID!, $paymentPending: Boolean) {
		draftOrderComplete(id: $id, paymentPending: $paymentPending) {
			draftOrder {
				id
				order { id name }
			}
			userErrors { field message }
		}
	}`

	var data draftOrderCompleteData
	err := c.graphqlRequest(ctx, query, map[string]interface{}{
		"id":             draftOrderID,
		"paymentPending": true,
	}, &data)
	if err != nil {
		return nil, err
	}
	if err := userErrorsToError("draftOrderComplete", data.DraftOrderComplete.UserErrors); err != nil {
		return nil, err
	}
	if data.DraftOrderComplete.DraftOrder == nil || data.DraftOrderComplete.DraftOrder.Order == nil {
		return nil, errors.New("draftOrderComplete returned no order")
	}

	return &CompletedOrder{
		ID:   data.DraftOrderComplete.DraftOrder.Order.ID,
		Name: data.DraftOrderComplete.DraftOrder.Order.Name,
	}, nil
}

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

type userError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

type variantSearchData struct {
	ProductVariants struct {
		Nodes []struct {
			ID               string `json:"id"`
			LegacyResourceID string `json:"legacyResourceId"`
			Sku              string `json:"sku"`
			Price            string `json:"price"`
			Product          struct {
				ID string `json:"id"`
			} `json:"product"`
			InventoryItem struct {
				ID string `json:"id"`
			} `json:"inventoryItem"`
		} `json:"nodes"`
	} `json:"productVariants"`
}

func (c *Client) graphqlURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shopDomain, c.apiVersion)
}

// graphqlRequest posts a query and decodes the data payload into out,
// returning a structured error on transport failure, GraphQL errors, or a
// missing data section.
func (c *Client) graphqlRequest(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload := graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL(), bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("graphql errors: %s", formatGraphQLErrors(gqlResp.Errors))
	}
	if out == nil {
		return nil
	}
	if len(gqlResp.Data) == 0 {
		return errors.New("graphql response missing data")
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}
	return nil
}

// FindVariantBySKU looks up a variant by exact SKU. Returns (nil, nil)
// when no variant carries the SKU.
func (c *Client) FindVariantBySKU(ctx context.Context, sku string) (*VariantMatch, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errors.New("sku is required")
	}

	query := `
	query variantBySku($first: Int!, $query: String!) {
		productVariants(first: $first, query: $query) {
			nodes {
				id
				legacyResourceId
				sku
				price
				product { id }
				inventoryItem { id }
			}
		}
	}`

	var data variantSearchData
	err := c.graphqlRequest(ctx, query, map[string]interface{}{
		"first": 1,
		"query": fmt.Sprintf("sku:%s", quoteSearchValue(sku)),
	}, &data)
	if err != nil {
		return nil, err
	}

	for _, node := range data.ProductVariants.Nodes {
		// The search is a prefix match on some API versions; require an
		// exact SKU before trusting the hit.
		if node.Sku != sku {
			continue
		}
		return &VariantMatch{
			ID:              node.ID,
			LegacyID:        parseLegacyID(node.LegacyResourceID),
			Sku:             node.Sku,
			Price:           node.Price,
			ProductID:       node.Product.ID,
			InventoryItemID: node.InventoryItem.ID,
		}, nil
	}
	return nil, nil
}

func quoteSearchValue(value string) string {
	if strings.ContainsAny(value, " \"") {
		value = strings.ReplaceAll(value, `"`, `\"`)
		return fmt.Sprintf(`"%s"`, value)
	}
	return value
}

func parseLegacyID(s string) int64 {
	var id int64
	fmt.Sscanf(s, "%d", &id)
	return id
}

func userErrorsToError(action string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Field) > 0 {
			msg = fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), msg)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return fmt.Errorf("%s failed with user errors", action)
	}
	return fmt.Errorf("%s failed: %s", action, strings.Join(parts, "; "))
}

func formatGraphQLErrors(errs []graphQLError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s (path: %v)", msg, e.Path)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(parts, "; ")
}

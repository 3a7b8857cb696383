package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storesync/internal/logger"
)

// Client talks to one Shopify store's Admin API. Engines hold one client
// per store; there is no shared global client.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *logger.Logger
}

// APIError is a non-2xx response from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API request failed: %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}

func NewClient(shopDomain, accessToken, apiVersion string, logger *logger.Logger) *Client {
	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Domain returns the store domain this client is bound to.
func (c *Client) Domain() string {
	return c.shopDomain
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("https://%s/admin/api/%s/%s", c.shopDomain, c.apiVersion, path)
}

// GetProducts fetches one page of products. Pass the NextPageInfo of the
// previous response to continue; an empty NextPageInfo means the last page.
func (c *Client) GetProducts(ctx context.Context, limit int, pageInfo string) (*ProductsResponse, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if pageInfo != "" {
		params.Set("page_info", pageInfo)
	}

	var productsResp ProductsResponse
	header, err := c.getWithRetry(ctx, c.restURL("products.json")+"?"+params.Encode(), &productsResp)
	if err != nil {
		return nil, err
	}

	productsResp.NextPageInfo = nextPageInfo(header.Get("Link"))
	return &productsResp, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if _, err := c.getWithRetry(ctx, c.restURL(fmt.Sprintf("products/%d.json", productID)), &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// CreateProduct creates a product and returns it with store-assigned IDs.
func (c *Client) CreateProduct(ctx context.Context, product *NewProduct) (*Product, error) {
	payload := struct {
		Product *NewProduct `json:"product"`
	}{Product: product}

	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, c.restURL("products.json"), payload, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// UpdateVariantPrices issues a price-only update against an existing product.
func (c *Client) UpdateVariantPrices(ctx context.Context, productID int64, prices []VariantPriceUpdate) error {
	payload := struct {
		Product struct {
			ID       int64                `json:"id"`
			Variants []VariantPriceUpdate `json:"variants"`
		} `json:"product"`
	}{}
	payload.Product.ID = productID
	payload.Product.Variants = prices

	return c.do(ctx, http.MethodPut, c.restURL(fmt.Sprintf("products/%d.json", productID)), payload, nil)
}

// GetVariantMetafields fetches the metafields attached to a variant.
func (c *Client) GetVariantMetafields(ctx context.Context, variantID int64) ([]Metafield, error) {
	var resp struct {
		Metafields []Metafield `json:"metafields"`
	}
	if _, err := c.getWithRetry(ctx, c.restURL(fmt.Sprintf("variants/%d/metafields.json", variantID)), &resp); err != nil {
		return nil, err
	}
	return resp.Metafields, nil
}

// do performs a REST call and decodes the JSON response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
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

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getWithRetry performs a GET with one immediate retry on transient
// failures. GETs are idempotent, so the retry is safe.
func (c *Client) getWithRetry(ctx context.Context, rawURL string, out interface{}) (http.Header, error) {
	header, err := c.get(ctx, rawURL, out)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		c.logger.Debug("retrying GET %s after transient error: %v", rawURL, err)
		header, err = c.get(ctx, rawURL, out)
	}
	return header, err
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	// Wrapped transport errors without a typed cause.
	return strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "EOF")
}

// nextPageInfo extracts the page_info cursor of the rel="next" link from a
// Link response header. Returns "" when there is no next page.
func nextPageInfo(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}
	return ""
}

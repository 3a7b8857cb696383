package shopify

import (
	"time"
)

// Product represents a Shopify product as returned by the Admin REST API.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Handle      string     `json:"handle"`
	Status      string     `json:"status"`
	Tags        string     `json:"tags"`
	Variants    []Variant  `json:"variants"`
	Images      []Image    `json:"images"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
}

// Variant represents a product variant.
type Variant struct {
	ID                  int64  `json:"id"`
	ProductID           int64  `json:"product_id"`
	Title               string `json:"title"`
	Price               string `json:"price"`
	Sku                 string `json:"sku"`
	Position            int    `json:"position"`
	InventoryPolicy     string `json:"inventory_policy"`
	InventoryManagement string `json:"inventory_management"`
	InventoryItemID     int64  `json:"inventory_item_id"`
	InventoryQuantity   int    `json:"inventory_quantity"`
	Barcode             string `json:"barcode,omitempty"`
}

// Image represents a product image.
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Position  int    `json:"position"`
	Src       string `json:"src"`
}

// Metafield represents a product or variant metafield.
type Metafield struct {
	ID        int64  `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// Location represents an inventory location.
type Location struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// InventoryLevel is the on-hand quantity of one inventory item at one location.
type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
}

// Order is the shape of an orders/create webhook payload. Only the fields
// the mirror flow reads are decoded.
type Order struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	FinancialStatus string     `json:"financial_status"`
	Currency        string     `json:"currency"`
	TotalPrice      string     `json:"total_price"`
	LineItems       []LineItem `json:"line_items"`
	CreatedAt       time.Time  `json:"created_at"`
}

// LineItem is a single order line.
type LineItem struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	Title     string `json:"title"`
	Sku       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// ProductsResponse represents one page of the products API. NextPageInfo
// is extracted from the Link response header and is empty on the last page.
type ProductsResponse struct {
	Products     []Product `json:"products"`
	NextPageInfo string    `json:"-"`
}

// NewVariant is the variant portion of a product create request.
type NewVariant struct {
	Title               string `json:"title,omitempty"`
	Price               string `json:"price"`
	Sku                 string `json:"sku"`
	InventoryPolicy     string `json:"inventory_policy"`
	InventoryManagement string `json:"inventory_management"`
	InventoryQuantity   int    `json:"inventory_quantity"`
}

// NewImage is the image portion of a product create request.
type NewImage struct {
	Src string `json:"src"`
}

// NewProduct is a product create request body.
type NewProduct struct {
	Title    string       `json:"title"`
	BodyHTML string       `json:"body_html,omitempty"`
	Handle   string       `json:"handle"`
	Status   string       `json:"status"`
	Variants []NewVariant `json:"variants"`
	Images   []NewImage   `json:"images,omitempty"`
}

// VariantPriceUpdate is one price change inside a product update request.
type VariantPriceUpdate struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

// VariantMatch is the result of a variant-by-SKU lookup on the GraphQL API.
type VariantMatch struct {
	ID              string // gid://shopify/ProductVariant/...
	LegacyID        int64
	Sku             string
	Price           string
	ProductID       string
	InventoryItemID string
}

// DraftOrderLine is one line of a draft order create request.
type DraftOrderLine struct {
	VariantID       string
	Quantity        int
	DiscountPercent string // empty means no discount
}

// DraftOrderRequest carries everything needed to create a draft order.
type DraftOrderRequest struct {
	Email string
	Note  string
	Tags  []string
	Lines []DraftOrderLine
}

// DraftOrder identifies a created draft order.
type DraftOrder struct {
	ID   string
	Name string
}

// CompletedOrder identifies the real order produced from a draft order.
type CompletedOrder struct {
	ID   string
	Name string
}

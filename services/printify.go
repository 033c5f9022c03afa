package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const printifyAPIURL = "https://api.printify.com/v1"

var errNotFound = errors.New("printify: not found")

// PrintifyClient talks to the print-on-demand provider. There is no official
// Go SDK, so this is a thin REST client over net/http.
type PrintifyClient struct {
	baseURL string
	apiKey  string
	shopID  string
	http    *http.Client
}

func NewPrintifyClient(apiKey, shopID string) *PrintifyClient {
	return &PrintifyClient{
		baseURL: printifyAPIURL,
		apiKey:  apiKey,
		shopID:  shopID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewPrintifyClientWithBase is used by tests to point the client at a local server.
func NewPrintifyClientWithBase(baseURL, apiKey, shopID string) *PrintifyClient {
	return &PrintifyClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		shopID:  shopID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type PrintifyVariant struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Price           int64  `json:"price"`
	IsEnabled       bool   `json:"is_enabled"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
}

type PrintifyImage struct {
	Src      string `json:"src"`
	Position string `json:"position,omitempty"`
}

type PrintifyProduct struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Visible     bool              `json:"visible"`
	Images      []PrintifyImage   `json:"images"`
	Variants    []PrintifyVariant `json:"variants"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type PrintifyLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type PrintifyAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
}

type PrintifyOrderRequest struct {
	ExternalID      string             `json:"external_id"`
	LineItems       []PrintifyLineItem `json:"line_items"`
	ShippingMethod  int                `json:"shipping_method"`
	ShippingAddress PrintifyAddress    `json:"address_to"`
}

type PrintifyOrder struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	Shipments  []struct {
		Carrier string `json:"carrier"`
		Number  string `json:"number"`
		URL     string `json:"url"`
	} `json:"shipments"`
}

type productListEnvelope struct {
	Data []PrintifyProduct `json:"data"`
}

// GetProducts fetches the full product list. The provider paginates, but the
// shop catalog is small enough that one page covers it; filtering and paging
// happen in the catalog adapter.
func (c *PrintifyClient) GetProducts() ([]PrintifyProduct, error) {
	body, err := c.do(http.MethodGet, fmt.Sprintf("/shops/%s/products.json", c.shopID), nil)
	if err != nil {
		return nil, err
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	// Some responses are a bare array rather than a data envelope.
	var products []PrintifyProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("printify: decoding product list: %w", err)
	}
	return products, nil
}

// GetProduct returns nil (not an error) for an unknown product id, matching
// the store layer's missing-row convention.
func (c *PrintifyClient) GetProduct(productID string) (*PrintifyProduct, error) {
	body, err := c.do(http.MethodGet, fmt.Sprintf("/shops/%s/products/%s.json", c.shopID, productID), nil)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product PrintifyProduct
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("printify: decoding product: %w", err)
	}
	return &product, nil
}

func (c *PrintifyClient) CreateOrder(order PrintifyOrderRequest) (*PrintifyOrder, error) {
	body, err := c.do(http.MethodPost, fmt.Sprintf("/shops/%s/orders.json", c.shopID), order)
	if err != nil {
		return nil, err
	}

	var created PrintifyOrder
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("printify: decoding order: %w", err)
	}
	return &created, nil
}

func (c *PrintifyClient) GetOrder(orderID string) (*PrintifyOrder, error) {
	body, err := c.do(http.MethodGet, fmt.Sprintf("/shops/%s/orders/%s.json", c.shopID, orderID), nil)
	if err != nil {
		return nil, err
	}

	var order PrintifyOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("printify: decoding order: %w", err)
	}
	return &order, nil
}

func (c *PrintifyClient) do(method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("printify: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("printify: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("printify: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("printify: status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

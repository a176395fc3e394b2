package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autocitypro/import-service/internal/models"
)

// CatalogClient talks to the autocityPro backend REST API. The backend
// owns all business rules (pricing, stock mutation, ledger posting); this
// client only moves payloads.
type CatalogClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewCatalogClient creates a client for the given base URL. An empty
// timeout falls back to 30 seconds.
func NewCatalogClient(baseURL, token string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type productSummary struct {
	SKU string `json:"sku"`
}

type productListResponse struct {
	Products []productSummary `json:"products"`
}

type categoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

type categoryResponse struct {
	Category models.Category `json:"category"`
}

type productResponse struct {
	Product struct {
		SKU string `json:"sku"`
	} `json:"product"`
}

type apiError struct {
	Error string `json:"error"`
}

// ListSKUs fetches the full product listing once, with a large page size,
// and returns the set of existing SKUs plus the total product count.
func (c *CatalogClient) ListSKUs(ctx context.Context, pageSize int) (map[string]bool, int, error) {
	url := fmt.Sprintf("%s/api/products?limit=%d", c.baseURL, pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("failed to list products: %s", c.errorMessage(resp))
	}

	var result productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode product listing: %w", err)
	}

	skus := make(map[string]bool, len(result.Products))
	for _, p := range result.Products {
		if p.SKU != "" {
			skus[p.SKU] = true
		}
	}
	return skus, len(result.Products), nil
}

// ListCategories fetches the known category list used to pre-resolve
// category names during validation.
func (c *CatalogClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	url := fmt.Sprintf("%s/api/categories", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list categories: %s", c.errorMessage(resp))
	}

	var result categoryListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode category listing: %w", err)
	}
	return result.Categories, nil
}

// CreateCategory creates a category by name. The backend is assumed
// idempotent by name: re-posting an existing name returns the existing
// category rather than a duplicate.
func (c *CatalogClient) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	url := fmt.Sprintf("%s/api/categories", c.baseURL)

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to create category %q: %s", name, c.errorMessage(resp))
	}

	var result categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode category response: %w", err)
	}
	return &result.Category, nil
}

// CreateProduct submits one creation payload and returns the
// server-assigned SKU. On a non-2xx response the server's error string is
// returned verbatim so it can be shown on the failing row.
func (c *CatalogClient) CreateProduct(ctx context.Context, payload models.CreateProductRequest) (string, error) {
	url := fmt.Sprintf("%s/api/products", c.baseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s", c.errorMessage(resp))
	}

	var result productResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode product response: %w", err)
	}
	return result.Product.SKU, nil
}

func (c *CatalogClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// errorMessage extracts the server's error string from a failed response,
// falling back to the raw body or status.
func (c *CatalogClient) errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(resp.Body)
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	if len(body) > 0 {
		return fmt.Sprintf("%d - %s", resp.StatusCode, string(body))
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}

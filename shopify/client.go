package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const apiVersion = "2024-01"

var (
	ErrConfigMissing = errors.New("shopify configuration missing")
	ErrTransport     = errors.New("shopify transport failure")
)

type shopifyClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newShopifyClient() (*shopifyClient, error) {
	domain := strings.TrimSpace(os.Getenv("SHOPIFY_STORE_DOMAIN"))
	token := strings.TrimSpace(os.Getenv("SHOPIFY_ADMIN_TOKEN"))
	if domain == "" || token == "" {
		return nil, ErrConfigMissing
	}

	// SHOPIFY_API_BASE_URL overrides the admin host, used by tests.
	baseURL := strings.TrimSpace(os.Getenv("SHOPIFY_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://" + domain
	}

	return &shopifyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *shopifyClient) createProduct(ctx context.Context, payload *ProductRequest) (*Product, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/admin/api/" + apiVersion + "/products.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed ProductResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrTransport, err)
	}
	if parsed.Product.Id == 0 {
		return nil, fmt.Errorf("%w: response carried no product id", ErrTransport)
	}
	return &parsed.Product, nil
}

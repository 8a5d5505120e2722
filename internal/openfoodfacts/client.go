// Package openfoodfacts looks products up in the Open Food Facts database and
// maps them onto per-100g macros.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/platewise/backend/internal/nutrition"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "platewise-backend/1.0 (+https://github.com/pageza/platewise)"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the subset of an Open Food Facts product the app stores.
type Product struct {
	Code        string
	Name        string
	Brand       string
	ServingSize float64
	ServingUnit string
	Per100g     nutrition.Per100g
}

// Client talks to the Open Food Facts v2 API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for baseURL, or the public instance when empty.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 12 * time.Second},
	}
}

// LookupBarcode fetches a single product by barcode.
func (c *Client) LookupBarcode(ctx context.Context, code string) (*Product, error) {
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.BaseURL, url.PathEscape(code))

	var parsed productResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return nil, fmt.Errorf("%w: barcode %q", ErrProductNotFound, code)
	}

	p := parsed.Product.toProduct()
	if p.Code == "" {
		p.Code = code
	}
	return &p, nil
}

// Search runs a full-text product search and returns up to limit named
// products.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("search_terms", strings.TrimSpace(query))
	q.Set("page_size", strconv.Itoa(limit))
	q.Set("fields", "code,product_name,brands,serving_size,serving_quantity,nutriments")
	endpoint := fmt.Sprintf("%s/api/v2/search?%s", c.BaseURL, q.Encode())

	var parsed searchResponse
	if err := c.get(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, p.toProduct())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call openfoodfacts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode openfoodfacts response: %w", err)
	}
	return nil
}

type productResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type searchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

type offProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	ServingSize     string         `json:"serving_size"`
	ServingQuantity any            `json:"serving_quantity"`
	Nutriments      map[string]any `json:"nutriments"`
}

func (p offProduct) toProduct() Product {
	size, unit := parseServing(p.ServingQuantity, p.ServingSize)
	out := Product{
		Code:        strings.TrimSpace(p.Code),
		Name:        strings.TrimSpace(p.ProductName),
		Brand:       firstBrand(p.Brands),
		ServingSize: size,
		ServingUnit: unit,
		Per100g: nutrition.Per100g{
			Calories: per100g(p.Nutriments, "energy-kcal"),
			Protein:  per100g(p.Nutriments, "proteins"),
			Carbs:    per100g(p.Nutriments, "carbohydrates"),
			Fat:      per100g(p.Nutriments, "fat"),
			Fiber:    per100g(p.Nutriments, "fiber"),
			Sugar:    per100g(p.Nutriments, "sugars"),
		},
	}
	// Open Food Facts reports sodium in grams.
	if v := per100g(p.Nutriments, "sodium"); v != nil {
		mg := *v * 1000
		out.Per100g.Sodium = &mg
	}
	return out
}

func per100g(n map[string]any, name string) *float64 {
	v, ok := parseFloatAny(n[name+"_100g"])
	if !ok {
		return nil
	}
	return &v
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// parseServing prefers the numeric serving_quantity and falls back to the
// leading number of the free-text serving_size ("30 g").
func parseServing(quantity any, size string) (float64, string) {
	unit := "g"
	fields := strings.Fields(size)
	if len(fields) >= 2 {
		unit = strings.ToLower(strings.Trim(fields[1], "()"))
	}
	if v, ok := parseFloatAny(quantity); ok && v > 0 {
		return v, unit
	}
	if len(fields) > 0 {
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil && v > 0 {
			return v, unit
		}
	}
	return 100, "g"
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

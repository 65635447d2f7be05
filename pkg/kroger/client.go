package kroger

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

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	locationsPath = "/locations"
	productsPath  = "/products"

	locationLimit = 1
	productLimit  = 5

	maxResponseSizeBytes = 2 << 20
)

// StoreLocation is the nearest store returned for a zip code.
type StoreLocation struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
}

// ProductResult is one display-ready product row. Price and PromoPrice hold a
// formatted currency string or NotAvailable.
type ProductResult struct {
	UPC        string `json:"upc"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	PromoPrice string `json:"promo_price"`
}

// HasPromo reports whether the upstream record carried a promotional price.
func (p ProductResult) HasPromo() bool {
	return p.PromoPrice != NotAvailable
}

type locationsResponse struct {
	Data []StoreLocation `json:"data"`
}

type productsResponse struct {
	Data []productRecord `json:"data"`
}

type productRecord struct {
	UPC         string        `json:"upc"`
	Description string        `json:"description"`
	Items       []productItem `json:"items"`
}

type productItem struct {
	Price *itemPrice `json:"price"`
}

type itemPrice struct {
	Regular *float64 `json:"regular"`
	Promo   *float64 `json:"promo"`
}

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenCache replaces the default client-credentials token cache.
func WithTokenCache(tokens *TokenCache) ClientOption {
	return func(c *Client) {
		if tokens != nil {
			c.tokens = tokens
		}
	}
}

// Client talks to the retailer's public locations and products API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenCache
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid kroger api base: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.tokens == nil {
		cfg.APIBase = baseURL
		client.tokens = NewTokenCache(NewClientCredentialsExchanger(cfg, client.httpClient))
	}

	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Tokens exposes the client's token cache.
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// FindNearestStore returns the first store near zipCode. Any failure,
// including a missing token, yields ok=false; no request is sent without a token.
func (c *Client) FindNearestStore(ctx context.Context, zipCode string) (*StoreLocation, bool) {
	token, ok := c.tokens.Token(ctx)
	if !ok {
		return nil, false
	}

	query := url.Values{}
	query.Set("filter.zipCode.near", zipCode)
	query.Set("filter.limit", strconv.Itoa(locationLimit))

	var resp locationsResponse
	if err := c.getJSON(ctx, locationsPath, query, token, &resp); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("zip_code", zipCode).Msg("location lookup failed")
		return nil, false
	}
	if len(resp.Data) == 0 {
		log.Ctx(ctx).Info().Str("zip_code", zipCode).Msg("no store found near zip code")
		return nil, false
	}

	store := resp.Data[0]
	log.Ctx(ctx).Info().
		Str("store_name", store.Name).
		Str("location_id", store.LocationID).
		Msg("store found")
	return &store, true
}

// SearchProducts returns up to five products for term at locationID in
// upstream order. Any failure yields an empty slice.
func (c *Client) SearchProducts(ctx context.Context, locationID string, term string) []ProductResult {
	if strings.TrimSpace(locationID) == "" {
		return []ProductResult{}
	}
	token, ok := c.tokens.Token(ctx)
	if !ok {
		return []ProductResult{}
	}

	query := url.Values{}
	query.Set("filter.term", term)
	query.Set("filter.locationId", locationID)
	query.Set("filter.limit", strconv.Itoa(productLimit))

	var resp productsResponse
	if err := c.getJSON(ctx, productsPath, query, token, &resp); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("location_id", locationID).
			Str("search_term", term).
			Msg("product search failed")
		return []ProductResult{}
	}

	results := make([]ProductResult, 0, len(resp.Data))
	for _, record := range resp.Data {
		results = append(results, toProductResult(record))
	}
	return results
}

func toProductResult(record productRecord) ProductResult {
	result := ProductResult{
		UPC:        record.UPC,
		Name:       record.Description,
		Price:      NotAvailable,
		PromoPrice: NotAvailable,
	}

	if len(record.Items) == 0 || record.Items[0].Price == nil {
		return result
	}

	price := record.Items[0].Price
	if price.Regular != nil {
		result.Price = FormatPrice(*price.Regular)
	}
	if price.Promo != nil {
		result.PromoPrice = FormatPrice(*price.Promo)
	}
	return result
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	if c == nil {
		return errors.New("nil kroger client")
	}

	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("kroger http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package commerce is the HTTP client for the external commerce API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const userAgent = "electro-atlas-storefront/1.0"

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker[[]byte]
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithBreaker(cfg circuitbreaker.Config) Option {
	return func(c *Client) {
		cfg.Ignore = healthyUpstream
		c.breaker = circuitbreaker.New[[]byte]("commerce-api", cfg)
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		cfg := circuitbreaker.DefaultConfig()
		cfg.Ignore = healthyUpstream
		c.breaker = circuitbreaker.New[[]byte]("commerce-api", cfg)
	}
	return c
}

func (c *Client) GetCart(ctx context.Context, token string) (*domain.CartView, error) {
	var resp envelope[domain.CartView]
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.CartItems == nil {
		resp.Data.CartItems = []domain.CartItem{}
	}
	return &resp.Data, nil
}

func (c *Client) AddCartItem(ctx context.Context, token, productID string, quantity int) error {
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	return c.do(ctx, http.MethodPost, "/cart/items", token, body, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, quantity int) error {
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	return c.do(ctx, http.MethodPatch, "/cart/items", token, body, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token, productID string) error {
	body := cartItemRequest{ProductID: productID}
	return c.do(ctx, http.MethodDelete, "/cart/items", token, body, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/cart", token, nil, nil)
}

func (c *Client) GetWishlist(ctx context.Context, token string) (*domain.WishlistView, error) {
	var resp envelope[domain.WishlistView]
	if err := c.do(ctx, http.MethodGet, "/wishlist", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Items == nil {
		resp.Data.Items = []domain.WishlistItem{}
	}
	return &resp.Data, nil
}

func (c *Client) AddWishlistItem(ctx context.Context, token string, item domain.WishlistItem) error {
	body := wishlistItemRequest{ProductID: item.ProductID, ItemData: &item}
	return c.do(ctx, http.MethodPost, "/wishlist/items", token, body, nil)
}

func (c *Client) RemoveWishlistItem(ctx context.Context, token, productID string) error {
	body := wishlistItemRequest{ProductID: productID}
	return c.do(ctx, http.MethodDelete, "/wishlist/items", token, body, nil)
}

func (c *Client) ClearWishlist(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/wishlist", token, nil, nil)
}

// AuthStatus asks the API whether token belongs to a live session.
func (c *Client) AuthStatus(ctx context.Context, token string) (*AuthStatus, error) {
	var status AuthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/status", token, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var resp envelope[domain.Product]
	path := "/products/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, page int) (*ProductPage, error) {
	params := url.Values{}
	if query != "" {
		params.Set("search", query)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	path := "/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp envelope[ProductPage]
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Products == nil {
		resp.Data.Products = []domain.Product{}
	}
	return &resp.Data, nil
}

func (c *Client) Checkout(ctx context.Context, token string) (*CheckoutSession, error) {
	var resp envelope[CheckoutSession]
	if err := c.do(ctx, http.MethodPost, "/checkout", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// do sends one request through the circuit breaker and decodes a 2xx body
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, token, payload)
	})
	if err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response of %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, payload []byte) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return respBody, nil
}

func parseErrorResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

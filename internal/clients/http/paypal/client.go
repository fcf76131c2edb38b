package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	ModeLive    = "live"
	ModeSandbox = "sandbox"

	defaultTimeout = 10 * time.Second
)

// Config carries credentials and environment selection.
type Config struct {
	ClientID     string
	ClientSecret string
	Mode         string
	// BaseURL overrides the Mode-derived endpoint.
	BaseURL string
	Timeout time.Duration
}

// BaseURLForMode maps PAYPAL_MODE to an API host. Anything but "live" targets the sandbox.
func BaseURLForMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), ModeLive) {
		return LiveBaseURL
	}
	return SandboxBaseURL
}

// Client calls the Orders v2 API with an OAuth2 client-credentials token.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient builds a client whose transport fetches and refreshes access tokens and is traced.
// base may be nil; it is used for both the token and API calls.
func NewClient(cfg Config, base *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("paypal client id and secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = BaseURLForMode(cfg.Mode)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if base == nil {
		base = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	authed := cc.Client(tokenCtx)
	return &Client{baseURL: baseURL, http: authed, timeout: timeout}, nil
}

// BaseURL reports the resolved API host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateOrder opens a checkout order and returns its representation.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	headers := map[string]string{"Prefer": "return=representation"}
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", req, headers, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder captures the payment of an approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	id, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, strings.TrimSpace(orderID))
	if err != nil {
		return nil, fmt.Errorf("paypal: encode order id: %w", err)
	}
	if id == "" {
		return nil, errors.New("paypal: order id is required")
	}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+id+"/capture", struct{}{}, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	if c == nil || c.http == nil {
		return errors.New("paypal client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paypal: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paypal: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal: call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("paypal: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(raw) == 0 || json.Unmarshal(raw, apiErr) != nil {
			apiErr.Name = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("paypal: decode response: %w", err)
	}
	return nil
}

// Package shopify implements the storefront.Catalog port against the
// Shopify Admin REST API.
package shopify

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
	"sync"
	"time"

	"github.com/edulistas/backend/internal/domain/geo"
	"github.com/edulistas/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Adapter implements storefront.Catalog for Shopify
type Adapter struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	// mu serializes outbound requests so RequestDelay spacing holds
	mu          sync.Mutex
	lastRequest time.Time
}

// NewAdapter creates a Shopify adapter. A nil or incomplete config is
// accepted; calls then fail with storefront.ErrNotConfigured so the
// rest of the application keeps working without the platform.
func NewAdapter(config *Config, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := 15 * time.Second
	if config != nil {
		if err := config.Validate(); err != nil {
			log.Warn("shopify adapter starting without credentials", zap.Error(err))
		}
		if config.Timeout > 0 {
			timeout = config.Timeout
		}
	}
	return &Adapter{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// IsConfigured reports whether the adapter has credentials
func (a *Adapter) IsConfigured() bool {
	return a.config.IsComplete()
}

// GetProduct fetches a product with all variants by its platform id
func (a *Adapter) GetProduct(ctx context.Context, id storefront.ProductID) (*storefront.Product, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: empty product id", storefront.ErrProductNotFound)
	}
	path := fmt.Sprintf("products/%s.json", url.PathEscape(id.String()))
	body, err := a.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse product response: %w", err)
	}
	return envelope.Product.toDomain(), nil
}

// searchPageSize is how many products one listing page fetches
const searchPageSize = 250

// SearchProducts fetches the active product listing and filters it
// locally by accent-folded title, so "lapiz" finds "Lápiz". A title=
// query upstream would miss accented matches.
func (a *Adapter) SearchProducts(ctx context.Context, query storefront.SearchQuery) ([]storefront.ProductSummary, error) {
	params := url.Values{}
	params.Set("status", "active")
	params.Set("limit", strconv.Itoa(searchPageSize))

	body, err := a.doRequest(ctx, "products.json", params)
	if err != nil {
		return nil, err
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse search response: %w", err)
	}

	term := geo.Fold(query.Term)
	summaries := make([]storefront.ProductSummary, 0, len(envelope.Products))
	for i := range envelope.Products {
		p := &envelope.Products[i]
		if term != "" && !strings.Contains(geo.Fold(p.Title), term) {
			continue
		}
		summaries = append(summaries, p.toSummary())
		if query.Limit > 0 && len(summaries) == query.Limit {
			break
		}
	}
	return summaries, nil
}

// CartPermalink builds a storefront URL that preloads the given lines.
// Shopify accepts /cart/{variant}:{qty},{variant}:{qty}.
func (a *Adapter) CartPermalink(lines []storefront.CartLine) (string, error) {
	if !a.IsConfigured() {
		return "", storefront.ErrNotConfigured
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("shopify: cart permalink requires at least one line")
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.VariantID == "" || line.Quantity < 1 {
			return "", fmt.Errorf("shopify: invalid cart line %s:%d", line.VariantID, line.Quantity)
		}
		parts = append(parts, fmt.Sprintf("%s:%d", line.VariantID, line.Quantity))
	}
	return fmt.Sprintf("%s/cart/%s", a.config.StoreURL(), strings.Join(parts, ",")), nil
}

// Ping verifies connectivity and credentials against the platform
func (a *Adapter) Ping(ctx context.Context) error {
	body, err := a.doRequest(ctx, "shop.json", nil)
	if err != nil {
		return err
	}
	var envelope shopEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("shopify: failed to parse shop response: %w", err)
	}
	return nil
}

// doRequest performs a GET against the Admin API with request spacing
// and retries on throttled or transient failures.
func (a *Adapter) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !a.IsConfigured() {
		return nil, storefront.ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", a.config.StoreURL(), a.config.APIVersion, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	base := a.config.RetryBaseDelay
	if base <= 0 {
		base = time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := base * time.Duration(1<<(attempt-1))
			var throttled *throttledError
			if errors.As(lastErr, &throttled) && throttled.retryAfter > backoff {
				backoff = throttled.retryAfter
			}
			a.logger.Debug("retrying shopify request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		a.throttle(ctx)

		body, err := a.send(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// throttle waits until RequestDelay has passed since the last request
func (a *Adapter) throttle(ctx context.Context) {
	a.mu.Lock()
	wait := a.config.RequestDelay - time.Since(a.lastRequest)
	if wait < 0 {
		wait = 0
	}
	a.lastRequest = time.Now().Add(wait)
	a.mu.Unlock()

	if wait == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

func (a *Adapter) send(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", storefront.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		if errors.Is(err, storefront.ErrRateLimited) {
			if after := parseRetryAfter(resp.Header.Get("Retry-After")); after > 0 {
				return nil, &throttledError{retryAfter: after}
			}
		}
		return nil, err
	}
	return body, nil
}

// throttledError carries the platform's Retry-After hint on a 429
type throttledError struct {
	retryAfter time.Duration
}

func (e *throttledError) Error() string {
	return fmt.Sprintf("%v (retry after %s)", storefront.ErrRateLimited, e.retryAfter)
}

func (e *throttledError) Unwrap() error { return storefront.ErrRateLimited }

// parseRetryAfter reads Shopify's Retry-After header, which is a
// number of seconds possibly fractional, e.g. "2.0"
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// classifyStatus maps HTTP status codes onto domain catalog errors
func classifyStatus(status int) error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusNotFound:
		return storefront.ErrProductNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return storefront.ErrAccessForbidden
	case status == http.StatusTooManyRequests:
		return storefront.ErrRateLimited
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", storefront.ErrPlatformUnavailable, status)
	default:
		return fmt.Errorf("shopify: unexpected HTTP %d", status)
	}
}

// isRetryable reports whether a request should be retried
func isRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, storefront.ErrRateLimited):
		return true
	case errors.Is(err, storefront.ErrPlatformUnavailable):
		return true
	default:
		return false
	}
}

package shopify

import (
	"errors"
	"fmt"
	"time"
)

// Config holds configuration for the Shopify Admin API integration
type Config struct {
	// ShopName is the *.myshopify.com subdomain of the store
	ShopName string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version, e.g. "2024-01"
	APIVersion string
	// APIBaseURL overrides the store URL, used for tests
	APIBaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// MaxRetries is the number of retries on throttled or failed requests
	MaxRetries int
	// RequestDelay is the minimum spacing between consecutive requests
	RequestDelay time.Duration
	// RetryBaseDelay is the first retry backoff, doubled per attempt.
	// A Retry-After header from the platform overrides it when longer.
	RetryBaseDelay time.Duration
}

// DefaultAPIVersion is the Admin API version used when none is configured
const DefaultAPIVersion = "2024-01"

var (
	ErrConfigMissingShop  = errors.New("shopify: shop name is required")
	ErrConfigMissingToken = errors.New("shopify: access token is required")
)

// NewConfig creates a Shopify configuration with defaults
func NewConfig(shopName, accessToken string) *Config {
	return &Config{
		ShopName:       shopName,
		AccessToken:    accessToken,
		APIVersion:     DefaultAPIVersion,
		Timeout:        15 * time.Second,
		MaxRetries:     3,
		RequestDelay:   500 * time.Millisecond,
		RetryBaseDelay: time.Second,
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.ShopName == "" {
		return ErrConfigMissingShop
	}
	if c.AccessToken == "" {
		return ErrConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RequestDelay < 0 {
		c.RequestDelay = 0
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	return nil
}

// StoreURL returns the base URL of the store
func (c *Config) StoreURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return fmt.Sprintf("https://%s.myshopify.com", c.ShopName)
}

// IsComplete reports whether the credentials are present
func (c *Config) IsComplete() bool {
	return c != nil && c.ShopName != "" && c.AccessToken != ""
}

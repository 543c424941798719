package middleware

import (
	"github.com/gin-gonic/gin"
)

// VisitorKeyContextKey is the gin context key holding the visitor key
const VisitorKeyContextKey = "visitor_key"

// visitorKeyMaxLength caps the stored key so hostile headers cannot
// blow up the personalization log.
const visitorKeyMaxLength = 64

// VisitorKeyResolver derives the key that scopes a visitor's
// personalization log. Returning "" means the visitor is anonymous
// beyond recognition and personalization endpoints will reject the
// request.
type VisitorKeyResolver func(c *gin.Context) string

// ClientIPResolver identifies visitors by their client IP. This is the
// default: no cookies or accounts, visitors on the same IP share a
// temporary view.
func ClientIPResolver(c *gin.Context) string {
	return c.ClientIP()
}

// VisitorKey resolves the visitor key for each request and stores it
// in the context. A nil resolver falls back to the client IP.
func VisitorKey(resolver VisitorKeyResolver) gin.HandlerFunc {
	if resolver == nil {
		resolver = ClientIPResolver
	}
	return func(c *gin.Context) {
		key := resolver(c)
		if len(key) > visitorKeyMaxLength {
			key = key[:visitorKeyMaxLength]
		}
		c.Set(VisitorKeyContextKey, key)
		c.Next()
	}
}

// GetVisitorKey retrieves the visitor key from the gin context
func GetVisitorKey(c *gin.Context) string {
	if key, exists := c.Get(VisitorKeyContextKey); exists {
		if s, ok := key.(string); ok {
			return s
		}
	}
	return ""
}

package storefront

import (
	"strconv"
	"strings"
)

// ProductID identifies a product on the e-commerce platform. Platform
// ids are numeric but travel as strings end to end to avoid precision
// loss in JSON payloads.
type ProductID string

func (id ProductID) String() string { return string(id) }

// IsZero reports whether the id is empty
func (id ProductID) IsZero() bool { return id == "" }

// NormalizeProductID trims an incoming raw id. Returns the zero id for
// blank input.
func NormalizeProductID(raw string) ProductID {
	return ProductID(strings.TrimSpace(raw))
}

// VariantID identifies a product variant. A missing variant is always
// represented as a nil *VariantID, never as an empty or sentinel string.
type VariantID string

func (id VariantID) String() string { return string(id) }

// Equal compares two variant ids, tolerating a numeric representation
// mismatch between stored and upstream ids ("42" matches "042").
func (id VariantID) Equal(other VariantID) bool {
	if id == other {
		return true
	}
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	return errA == nil && errB == nil && a == b
}

// NormalizeVariantID parses a raw variant id coming from clients or
// storage. Blank strings and serialized nulls mean "no variant" and
// yield nil.
func NormalizeVariantID(raw string) *VariantID {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "null", "undefined":
		return nil
	}
	id := VariantID(trimmed)
	return &id
}

// VariantIDValue renders an optional variant id for storage, mapping
// nil to the empty string.
func VariantIDValue(id *VariantID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

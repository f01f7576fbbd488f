// Package sizing provides safe size arithmetic and conversions to prevent overflow.
package sizing

import "math"

// ToInt converts an int64 to int, returning overflowErr if it doesn't fit or is negative.
func ToInt(size int64, overflowErr error) (int, error) {
	if size < 0 || size > int64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(size), nil
}

// AddInt64 adds two non-negative int64 values, returning (result, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// MulInt64 multiplies two non-negative int64 values, returning (result, false) on overflow.
func MulInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// FitsCount reports whether count elements of at least minSize bytes each can
// be stored in remaining bytes. A minSize <= 0 only checks that count is
// non-negative.
func FitsCount(count, minSize, remaining int64) bool {
	if count < 0 {
		return false
	}
	if minSize <= 0 {
		return true
	}
	need, ok := MulInt64(count, minSize)
	if !ok {
		return false
	}
	return need <= remaining
}

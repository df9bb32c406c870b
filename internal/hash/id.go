// Package hash provides the string hash used as a cache key for format strings.
package hash

import "github.com/cespare/xxhash/v2"

// FormatID returns the xxHash64 of a format string. Different strings may
// collide, so holders of the ID keep the string to compare against.
func FormatID(format string) uint64 {
	return xxhash.Sum64String(format)
}

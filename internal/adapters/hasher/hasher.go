// Package hasher implements content hashing with xxhash.
package hasher

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hasher implements ports.ContentHasher using 64-bit xxhash.
type Hasher struct{}

// New creates a new Hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the 16 character hex digest of data.
func (h *Hasher) Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

package hasher_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/iceberg/internal/adapters/hasher"
)

func TestHasher_Hash(t *testing.T) {
	h := hasher.New()

	a := h.Hash([]byte(`[{"id":"1"}]`))
	b := h.Hash([]byte(`[{"id":"1"}]`))
	c := h.Hash([]byte(`[{"id":"2"}]`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), a)
}

func TestHasher_EmptyInput(t *testing.T) {
	// xxhash64 of the empty input with seed 0.
	assert.Equal(t, "ef46db3751d8e999", hasher.New().Hash(nil))
}

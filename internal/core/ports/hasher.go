package ports

// ContentHasher computes the digest used to identify response bodies and inputs.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type ContentHasher interface {
	// Hash returns a fixed-length lowercase hex digest of data.
	Hash(data []byte) string
}

package ports

// PayloadTransformer maps rich values to JSON-compatible trees and back.
type PayloadTransformer interface {
	// Transform rewrites v into a tree that encoding/json can serialize without loss.
	Transform(v any) (any, error)

	// Untransform restores the values Transform rewrote.
	Untransform(v any) (any, error)
}

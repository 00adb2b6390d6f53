// Package httpapi binds the protocol to HTTP.
//
// Queries are GET {prefix}/{procedure}?input=<json>, mutations are
// POST {prefix}/{procedure} with a {"input": <json>} body. Protocol metadata
// travels in X-Iceberg-* headers.
package httpapi

import "encoding/json"

const (
	// HeaderDependencies carries the JSON array of dependency tags of a response.
	HeaderDependencies = "X-Iceberg-Dependencies"
	// HeaderHash carries the previous hash on requests and the body hash on responses.
	HeaderHash = "X-Iceberg-Hash"
	// HeaderIsDiff is "true" when the response body is an encoded diff.
	HeaderIsDiff = "X-Iceberg-Is-Diff"

	// MaxBodyBytes caps mutation request bodies.
	MaxBodyBytes = 1 << 20
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error string `json:"error"`
}

// mutationBody is the JSON shape of a mutation request.
type mutationBody struct {
	Input json.RawMessage `json:"input,omitempty"`
}

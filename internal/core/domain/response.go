package domain

const (
	// ContentTypeJSON is the media type of a full response body.
	ContentTypeJSON = "application/json"
	// ContentTypeDiff is the media type of an encoded diff body.
	ContentTypeDiff = "application/x.iceberg.diff"
)

// Result is the outcome of invoking a procedure handler.
type Result struct {
	Value any
	// Dependencies is the sorted set of tags the handler touched.
	Dependencies []string
}

// Response is what the server sends back for a single request.
type Response struct {
	Dependencies []string
	// Hash identifies the full serialized body, even when Body holds a diff.
	Hash   string
	IsDiff bool
	Body   []byte
}

// ContentType returns the media type matching the body encoding.
func (r *Response) ContentType() string {
	if r.IsDiff {
		return ContentTypeDiff
	}
	return ContentTypeJSON
}

// CachedResponse is the client's copy of the last full body received for a request.
type CachedResponse struct {
	Hash string
	Body []byte
}

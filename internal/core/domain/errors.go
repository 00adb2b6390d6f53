package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidInput is returned when a procedure input fails validation.
	ErrInvalidInput = zerr.New("invalid input")

	// ErrUnknownProcedure is returned when a request names a procedure that is not registered.
	ErrUnknownProcedure = zerr.New("unknown procedure")

	// ErrKindMismatch is returned when a procedure is called with the wrong kind, e.g. a mutation as a query.
	ErrKindMismatch = zerr.New("procedure kind mismatch")

	// ErrDuplicateProcedure is returned when registering a procedure under a name that is already taken.
	ErrDuplicateProcedure = zerr.New("procedure already registered")

	// ErrTruncatedBuffer is returned when an encoded diff ends before all declared fields were read.
	ErrTruncatedBuffer = zerr.New("truncated diff buffer")

	// ErrTrailingBytes is returned when an encoded diff has bytes left after the last declared edit.
	ErrTrailingBytes = zerr.New("trailing bytes after diff")

	// ErrInconsistentCache is returned when the client receives a diff it cannot apply to its cached body.
	ErrInconsistentCache = zerr.New("inconsistent client cache")

	// ErrMalformedRequest is returned when a wire request cannot be parsed.
	ErrMalformedRequest = zerr.New("malformed request")

	// ErrUnauthorized is returned when the caller's credentials cannot be verified.
	ErrUnauthorized = zerr.New("unauthorized")

	// ErrUnexpectedResponse is returned when the server answers with something the client cannot interpret.
	ErrUnexpectedResponse = zerr.New("unexpected response")

	// ErrUnknownStrategy is returned when a diff strategy name is not recognized.
	ErrUnknownStrategy = zerr.New("unknown diff strategy, expected 'basic' or 'advanced'")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMalformedPayload is returned when a tagged payload value cannot be restored.
	ErrMalformedPayload = zerr.New("malformed payload")

	// ErrDuplicatePlugin is returned when a payload plugin id is registered twice.
	ErrDuplicatePlugin = zerr.New("payload plugin already registered")

	// ErrMissingSecret is returned when signing or verifying tokens without a configured secret.
	ErrMissingSecret = zerr.New("identity secret is not configured")
)

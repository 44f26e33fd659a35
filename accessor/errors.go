package accessor

import "errors"

// Error taxonomy for path resolution. All failures wrap one of these
// sentinels so callers can classify with errors.Is.
var (
	// ErrPropertyNotFound reports a property with no matching accessor on a
	// bean target. It indicates a caller/mapping mismatch and is never
	// retried internally.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrTypeMismatch reports a value incompatible with the declared
	// property type, or a non-numeric or out-of-range index against a
	// sequence target.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupported reports an operation the target shape cannot perform,
	// such as collection mutation against a non-sequence wrapper.
	ErrUnsupported = errors.New("unsupported operation")
)

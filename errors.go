package prefkit

import "errors"

// Error kinds returned by Setting.Value. Returned errors wrap one of these
// sentinels together with the key and the underlying cause; check with
// errors.Is.
var (
	// ErrKeyNotFound: the backing store has no entry for the key.
	ErrKeyNotFound = errors.New("prefkit: key not found")

	// ErrTypeMismatch: the entry decodes but does not fit the expected type.
	ErrTypeMismatch = errors.New("prefkit: stored value type mismatch")

	// ErrInvalidData: the entry is not well-formed for the codec.
	ErrInvalidData = errors.New("prefkit: stored data malformed")

	// ErrDecodingFailed: the entry failed to decode for another reason.
	ErrDecodingFailed = errors.New("prefkit: decoding failed")

	// ErrAccessError: the backing store could not be reached or read.
	ErrAccessError = errors.New("prefkit: store access failed")

	// ErrEncodingFailed: a value could not be serialized. Never returned by
	// an accessor; it surfaces in logs, or as a panic under WithStrict.
	ErrEncodingFailed = errors.New("prefkit: encoding failed")
)

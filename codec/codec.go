// Package codec maps typed setting values to and from their stored byte
// form.
//
// Decode failures are classified so callers can distinguish bytes that are
// structurally wrong for the expected type (ErrMismatch) from bytes that are
// not valid input for the codec at all (ErrMalformed). Unclassified failures
// pass through unwrapped.
package codec

import "errors"

var (
	// ErrMismatch marks well-formed input that does not fit the target type.
	ErrMismatch = errors.New("codec: value shape mismatch")

	// ErrMalformed marks input that is not valid for the codec's format.
	ErrMalformed = errors.New("codec: malformed data")
)

// Codec serializes setting values. Implementations must round-trip: any
// value accepted by Marshal must Unmarshal back to an equal value.
type Codec interface {
	// Name identifies the codec in logs.
	Name() string

	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, wrapping classification sentinels
	// (ErrMismatch, ErrMalformed) where the underlying error allows it.
	Unmarshal(data []byte, v any) error
}

package lzjd

import "errors"

var (
	// ErrInvalidEncoding indicates that a digest text payload is not valid base64.
	ErrInvalidEncoding = errors.New("invalid digest encoding")

	// ErrInvalidLength indicates that a decoded digest payload is not a whole number of entries.
	ErrInvalidLength = errors.New("invalid digest payload length")

	// ErrUnknownHashFamily indicates that no hash family is registered under the requested name.
	ErrUnknownHashFamily = errors.New("unknown hash family")
)

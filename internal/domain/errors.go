package domain

import "errors"

var (
	// ErrNotFound means the query matched no coin, exactly or fuzzily.
	ErrNotFound = errors.New("coin not found")
	// ErrUpstreamUnavailable covers network, status and parse failures talking to the price API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrDirectoryEmpty means no coin list has been loaded yet.
	ErrDirectoryEmpty = errors.New("coin directory empty")
	// ErrInvalidQuery is returned for malformed input such as an empty query or a non-positive range.
	ErrInvalidQuery = errors.New("invalid query")
)

package doi

import (
	"errors"
	"fmt"
)

// Rejection kinds. A *ParseError returned by New wraps exactly one of them.
var (
	ErrEmptyInput                = errors.New("empty input")
	ErrInvalidDirectoryIndicator = errors.New("invalid directory indicator")
	ErrMissingDivider            = errors.New("missing divider")
	ErrAmbiguousEmbeddedMatch    = errors.New("ambiguous embedded match")
	ErrMalformedURI              = errors.New("malformed resolver uri")
)

// ParseError records a failed construction and the reason for it.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("doi: parsing %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

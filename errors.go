package stellar

import "errors"

// ErrUnknownSymbol is returned when a note, chord, sequence or sample
// reference cannot be resolved.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrInvalidArgument is returned for semantically invalid values: negative
// repeat counts, non-positive tempo, out-of-range octaves.
var ErrInvalidArgument = errors.New("invalid argument")

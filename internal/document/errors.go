package document

import "errors"

// Errors returned by Document operations.
var (
	// ErrInvalidMarkLetter indicates a mark name outside a-z.
	ErrInvalidMarkLetter = errors.New("invalid mark letter")

	// ErrNoSuchMark indicates the named local mark has not been set.
	ErrNoSuchMark = errors.New("no such mark")
)

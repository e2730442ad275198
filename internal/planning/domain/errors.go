package domain

import "errors"

// Sentinel errors returned by repositories and use cases. Shortage and
// lateness are not errors: they are verdict outcomes carried as data.
var (
	ErrNotFound          = errors.New("record not found")
	ErrReferenceNotFound = errors.New("referenced record not found")
	ErrDuplicateOrder    = errors.New("order already exists for product and start date")
	ErrInvalidWindow     = errors.New("end date is before start date")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

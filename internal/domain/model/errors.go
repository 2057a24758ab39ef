package model

import "errors"

// Sentinel kinds for pokemon operations.
var (
	// ErrStoreOperation matches every StoreError.
	ErrStoreOperation = errors.New("store operation failed")
	// ErrNotFound is reported by get-by-id when zero rows match.
	ErrNotFound = errors.New("pokemon not found")

	ErrInvalidID       = errors.New("invalid pokemon id")
	ErrInvalidBody     = errors.New("request body must be a JSON object")
	ErrEmptyBody       = errors.New("request body has no fields")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrImmutableColumn = errors.New("column is not writable")
	ErrInvalidValue    = errors.New("column value must be a string, number, boolean or null")
)

// StoreError wraps a driver error with the operation that produced it.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err for op. A nil err yields nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is reports ErrStoreOperation for every StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreOperation
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	for _, kind := range []error{ErrInvalidID, ErrInvalidBody, ErrEmptyBody, ErrUnknownColumn, ErrImmutableColumn, ErrInvalidValue} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

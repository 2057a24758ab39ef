package repository

import "errors"

// Sentinel kinds for store setup errors.
var (
	ErrOpenStore = errors.New("open store failed")
	ErrNoColumns = errors.New("table has no writable columns")
)

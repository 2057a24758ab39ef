// Package model contains domain models passed between layers.
package model

import "sort"

// Table is the relational table holding one row per pokemon.
const Table = "pokemons"

// IDColumn is the store-assigned identifier column.
const IDColumn = "id"

// Record is one stored row keyed by column name. Its shape follows the table
// schema, not the application.
type Record map[string]any

// Fields is a validated create/update body: column name to scalar value
// (string, int64, float64, bool or nil).
type Fields map[string]any

// Keys returns the field names in a stable order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Result is the driver metadata returned by write statements.
type Result struct {
	AffectedRows int64 `json:"affectedRows"`
	InsertID     int64 `json:"insertId,omitempty"`
}

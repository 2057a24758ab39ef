package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns is the allowlist of writable columns. The identifier column is never part of it.
type Columns struct {
	names []string
	set   map[string]struct{}
}

// NewColumns builds an allowlist preserving first-seen order. Blank names,
// duplicates and the identifier column are dropped.
func NewColumns(names ...string) Columns {
	c := Columns{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || n == IDColumn {
			continue
		}
		if _, dup := c.set[n]; dup {
			continue
		}
		c.set[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

// Has reports whether name is writable.
func (c Columns) Has(name string) bool {
	_, ok := c.set[name]
	return ok
}

// Names returns a copy of the allowlist in order.
func (c Columns) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of writable columns.
func (c Columns) Len() int { return len(c.names) }

// ParseID parses a path identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// ParseFields decodes a JSON object body and checks it against allow.
func ParseFields(r io.Reader, allow Columns) (Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null", ErrInvalidBody)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}

	fields := make(Fields, len(raw))
	for key, value := range raw {
		if key == IDColumn {
			return nil, fmt.Errorf("%w: %s", ErrImmutableColumn, key)
		}
		if !allow.Has(key) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
		v, err := scalar(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, key)
		}
		fields[key] = v
	}
	return fields, nil
}

func scalar(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, ErrInvalidValue
		}
		return f, nil
	default:
		return nil, ErrInvalidValue
	}
}

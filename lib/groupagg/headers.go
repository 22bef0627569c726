package groupagg

import "fmt"

// HeaderMode selects how a ColumnHeader was populated.
type HeaderMode int

const (
	// HeaderStoreNames stores the literal field names from the first record.
	HeaderStoreNames HeaderMode = iota
	// HeaderCountOnly synthesizes field-<n> names from a bare field count.
	HeaderCountOnly
)

// ColumnHeader resolves named FieldRefs to 1-based indices. Resolution is
// linear over the header sequence; duplicates are allowed and the first
// match wins. It is built once, from the first record, and
// is immutable thereafter.
type ColumnHeader struct {
	mode  HeaderMode
	names []string
	index map[string]int
}

// NewColumnHeaderFromNames builds a ColumnHeader that stores the given
// literal names (header-in mode).
func NewColumnHeaderFromNames(names []string) *ColumnHeader {
	return &ColumnHeader{mode: HeaderStoreNames, names: append([]string(nil), names...)}
}

// NewColumnHeaderFromCount synthesizes field-<n> names for a record with
// count fields (count-only mode, used when header-in is not set).
func NewColumnHeaderFromCount(count int) *ColumnHeader {
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("field-%d", i+1)
	}
	return &ColumnHeader{mode: HeaderCountOnly, names: names}
}

// FieldCount returns the number of known columns.
func (h *ColumnHeader) FieldCount() int { return len(h.names) }

// Name returns the 1-based n-th column name.
func (h *ColumnHeader) Name(n int) string {
	if n < 1 || n > len(h.names) {
		return ""
	}
	return h.names[n-1]
}

// Resolve returns the 1-based index of the first column named name, linearly
// scanning the header sequence and lazily memoizing the result.
func (h *ColumnHeader) Resolve(name string) (int, bool) {
	if h.index == nil {
		h.index = make(map[string]int, len(h.names))
	}
	if idx, ok := h.index[name]; ok {
		return idx, true
	}
	for i, n := range h.names {
		if n == name {
			h.index[name] = i + 1
			return i + 1, true
		}
	}
	return 0, false
}

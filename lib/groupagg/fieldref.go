package groupagg

import "strconv"

// FieldRef is a reference to an input column: either a 1-based number
// (Number != 0) or a name to resolve against the header once it is known.
type FieldRef struct {
	Number int
	Name   string
}

// IsNamed reports whether this reference must be resolved via headers.
func (f FieldRef) IsNamed() bool { return f.Number == 0 }

// Resolve returns the 1-based column number for f, resolving named
// references against h. h may be nil only when f is already numeric.
func (f FieldRef) Resolve(h *ColumnHeader) (int, error) {
	if !f.IsNamed() {
		return f.Number, nil
	}
	if h == nil {
		return 0, planErrorf("named field %q used without header-in", f.Name)
	}
	n, ok := h.Resolve(f.Name)
	if !ok {
		return 0, planErrorf("no such column %q", f.Name)
	}
	return n, nil
}

func (f FieldRef) String() string {
	if f.IsNamed() {
		return f.Name
	}
	return strconv.Itoa(f.Number)
}

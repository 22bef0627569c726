package groupagg

// FieldDelim is the input field delimiter discipline: either a single byte
// (including tab) or a run of one-or-more whitespace bytes treated as one
// separator.
type FieldDelim struct {
	Whitespace bool
	Char       byte
}

// TextOptions is the shared, read-only record/field configuration threaded
// through the driver and every operation. It is built once from the CLI
// and never mutated afterward.
type TextOptions struct {
	EndOfRecord byte // '\n' or 0x00

	InputDelim  FieldDelim
	OutputDelim byte

	CaseInsensitive bool
	Filler          string

	NumFormat string // printf-style spec, e.g. "%.6g"; empty means use Round
	Round     int     // decimal precision; -1 means unset (format default)

	NArm         bool
	SkipComments bool
	Strict       bool

	HeaderIn  bool
	HeaderOut bool
	FullLine  bool
	Sort      bool
}

// DefaultTextOptions returns the documented default field/record delimiters
// and formatting options.
func DefaultTextOptions() *TextOptions {
	return &TextOptions{
		EndOfRecord:     '\n',
		InputDelim:      FieldDelim{Whitespace: true},
		OutputDelim:     '\t',
		CaseInsensitive: false,
		Filler:          "N/A",
		Round:           -1,
		NArm:            false,
		SkipComments:    false,
		Strict:          true,
	}
}

package groupagg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// parseNumeric parses one field's raw bytes as a float64. The real datamash
// parses with strtold against the process locale's decimal point; this
// fixes the decimal point to '.' since Go's strconv has no locale-aware
// float parser, and documents the deviation rather than guessing.
func parseNumeric(raw []byte) (float64, error) {
	s := strings.TrimSpace(string(raw))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric input: %q", s)
	}
	return v, nil
}

var formatDirective = regexp.MustCompile(`%[-+ 0#]*[0-9]*(\.[0-9]+)?[eEfFgGaA]`)

// ValidateNumFormat checks that fmtSpec (the --format=FMT CLI value)
// contains exactly one printf directive of type e/f/g/a (any case), per
// "Output formatting".
func ValidateNumFormat(fmtSpec string) error {
	matches := formatDirective.FindAllStringIndex(fmtSpec, -1)
	if len(matches) != 1 {
		return parseErrorf("--format must contain exactly one %%[efgaEFGA] directive: %q", fmtSpec)
	}
	if strings.Count(fmtSpec, "%")-strings.Count(fmtSpec, "%%") != 1 {
		return parseErrorf("--format must contain exactly one %%-directive: %q", fmtSpec)
	}
	return nil
}

// formatNumber renders v per opts: opts.NumFormat (validated, user-supplied)
// takes priority; otherwise opts.Round sets the decimal precision; otherwise
// the default is a compact 'g'-style rendering.
func formatNumber(v float64, opts *TextOptions) string {
	if opts.NumFormat != "" {
		return fmt.Sprintf(hexFloatVerb(opts.NumFormat), v)
	}
	if opts.Round >= 0 {
		return strconv.FormatFloat(v, 'f', opts.Round, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// hexFloatVerb rewrites a %a/%A directive in fmtSpec to Go's %x/%X, the
// nearest equivalent fmt.Sprintf actually implements for float64 (unlike C's
// printf, which ValidateNumFormat's directive list is otherwise modeled on,
// Go's fmt has no %a verb and renders it as "%!a(float64=...)").
func hexFloatVerb(fmtSpec string) string {
	loc := formatDirective.FindStringIndex(fmtSpec)
	if loc == nil {
		return fmtSpec
	}
	end := loc[1]
	switch fmtSpec[end-1] {
	case 'a':
		return fmtSpec[:end-1] + "x" + fmtSpec[end:]
	case 'A':
		return fmtSpec[:end-1] + "X" + fmtSpec[end:]
	default:
		return fmtSpec
	}
}

package groupagg

import "golang.org/x/text/cases"

// caseFolder implements Unicode case folding for --ignore-case comparisons
// (group keys, text-set dedup) using golang.org/x/text/cases:
// strings.ToLower is byte-for-byte ASCII-only and wrong for the non-ASCII
// field values a real line-oriented tool has to accept.
var caseFolder = cases.Fold()

func foldCase(s string) string {
	return caseFolder.String(s)
}

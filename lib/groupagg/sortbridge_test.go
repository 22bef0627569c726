package groupagg

import (
	"strings"
	"testing"
)

func TestSortSpecArgsByteDelim(t *testing.T) {
	opts := DefaultTextOptions()
	opts.InputDelim = FieldDelim{Char: ','}
	spec := NewSortSpec([]int{1, 2}, opts)
	got := spec.String()
	want := "--stable -t , -k 1,1 -k 2,2"
	if got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestSortSpecArgsWhitespaceDelim(t *testing.T) {
	opts := DefaultTextOptions()
	spec := NewSortSpec([]int{1}, opts)
	if strings.Contains(spec.String(), "-t") {
		t.Fatalf("whitespace delimiter should not emit -t: %q", spec.String())
	}
}

func TestSortSpecCaseInsensitive(t *testing.T) {
	opts := DefaultTextOptions()
	opts.CaseInsensitive = true
	spec := NewSortSpec([]int{1}, opts)
	if !strings.Contains(spec.String(), "--ignore-case") {
		t.Fatalf("expected --ignore-case in %q", spec.String())
	}
}

package groupagg

import (
	"strings"
	"testing"
)

func TestCrosstabSumMatrix(t *testing.T) {
	opts := DefaultTextOptions()
	opts.InputDelim = FieldDelim{Char: '\t'}
	input := "r1\tc1\t5\nr1\tc2\t3\nr2\tc1\t7\n"
	got := runPlan(t, []string{"crosstab", "1,2", "sum", "3"}, opts, input)
	want := "\tc1\tc2\nr1\t5\t3\nr2\t7\tN/A\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCrosstabCustomFiller(t *testing.T) {
	opts := DefaultTextOptions()
	opts.InputDelim = FieldDelim{Char: '\t'}
	opts.Filler = "-"
	input := "r1\tc1\t1\nr2\tc2\t2\n"
	got := runPlan(t, []string{"crosstab", "1,2", "sum", "3"}, opts, input)
	want := "\tc1\tc2\nr1\t1\t-\nr2\t-\t2\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCrosstabRejectsWrongColumnCount(t *testing.T) {
	_, err := ParseProgram([]string{"crosstab", "1", "sum", "2"})
	if err == nil {
		t.Fatalf("expected error for single-column crosstab")
	}
}

func TestCrosstabRejectsMultipleOps(t *testing.T) {
	_, err := ParseProgram([]string{"crosstab", "1,2", "sum", "3", "mean", "3"})
	if err == nil {
		t.Fatalf("expected error for crosstab with more than one op")
	}
}

func TestCrosstabMatrixCellInterning(t *testing.T) {
	spec, ok := lookupOpKindSpec("sum")
	if !ok {
		t.Fatalf("no spec for sum")
	}
	m := NewCrosstabMatrix(spec, FieldRef{Number: 1})
	a := m.Cell("x", "y")
	b := m.Cell("x", "y")
	if a != b {
		t.Fatalf("Cell should return the same accumulator for a repeated (row,col) pair")
	}
	if len(m.rowNames) != 1 || len(m.colNames) != 1 {
		t.Fatalf("expected one interned row and column, got %v %v", m.rowNames, m.colNames)
	}
}

func TestCrosstabOutputSortedByName(t *testing.T) {
	opts := DefaultTextOptions()
	opts.InputDelim = FieldDelim{Char: '\t'}
	input := "b\tz\t1\na\ty\t2\n"
	got := runPlan(t, []string{"crosstab", "1,2", "sum", "3"}, opts, input)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[1][:1] != "a" || lines[2][:1] != "b" {
		t.Fatalf("expected rows sorted a before b, got %v", lines)
	}
}

package groupagg

import "testing"

func textOp(t *testing.T, name string) *OpInstance {
	spec, ok := lookupOpKindSpec(name)
	if !ok {
		t.Fatalf("no spec for %s", name)
	}
	return newOpInstance(spec, FieldRef{Number: 1})
}

func TestCollapse(t *testing.T) {
	op := textOp(t, "collapse")
	opts := DefaultTextOptions()
	for _, v := range []string{"b", "a", "b", "c"} {
		op.collectVectorText(v, opts)
	}
	if got := op.summarizeVectorText(opts); got != "b,a,b,c" {
		t.Fatalf("collapse = %q, want b,a,b,c", got)
	}
}

func TestUniqueSortsAndDedups(t *testing.T) {
	op := textOp(t, "unique")
	opts := DefaultTextOptions()
	for _, v := range []string{"banana", "apple", "banana", "cherry"} {
		op.collectVectorText(v, opts)
	}
	if got := op.summarizeVectorText(opts); got != "apple,banana,cherry" {
		t.Fatalf("unique = %q, want apple,banana,cherry", got)
	}
}

func TestUniqueCaseInsensitiveDedup(t *testing.T) {
	op := textOp(t, "unique")
	opts := DefaultTextOptions()
	opts.CaseInsensitive = true
	for _, v := range []string{"Apple", "apple", "APPLE"} {
		op.collectVectorText(v, opts)
	}
	if got := op.summarizeVectorText(opts); got != "Apple" {
		t.Fatalf("case-insensitive unique = %q, want Apple (first form kept)", got)
	}
}

func TestCountUnique(t *testing.T) {
	op := textOp(t, "countunique")
	opts := DefaultTextOptions()
	for _, v := range []string{"x", "y", "x", "z", "y"} {
		op.collectVectorText(v, opts)
	}
	if got := op.summarizeVectorText(opts); got != "3" {
		t.Fatalf("countunique = %q, want 3", got)
	}
}

func TestCountUniqueCaseInsensitive(t *testing.T) {
	op := textOp(t, "countunique")
	opts := DefaultTextOptions()
	opts.CaseInsensitive = true
	for _, v := range []string{"A", "a", "B"} {
		op.collectVectorText(v, opts)
	}
	if got := op.summarizeVectorText(opts); got != "2" {
		t.Fatalf("case-insensitive countunique = %q, want 2", got)
	}
}

func TestFoldKey(t *testing.T) {
	if got := foldKey("ABC", false); got != "ABC" {
		t.Fatalf("foldKey(case-sensitive) = %q, want ABC", got)
	}
	if got := foldKey("ABC", true); got != foldCase("ABC") {
		t.Fatalf("foldKey(case-insensitive) = %q, want %q", got, foldCase("ABC"))
	}
}

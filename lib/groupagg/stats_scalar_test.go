package groupagg

import (
	"fmt"
	"strings"
	"testing"
)

func opByName(name string) *OpInstance {
	spec, ok := lookupOpKindSpec(name)
	if !ok {
		panic("no spec for " + name)
	}
	return newOpInstance(spec, FieldRef{Number: 1})
}

func TestCollectScalarNumericSum(t *testing.T) {
	op := opByName("sum")
	for _, v := range []float64{1, 2, 3.5} {
		op.collectScalarNumeric(v)
	}
	opts := DefaultTextOptions()
	if got := op.summarizeScalarNumeric(opts); got != "6.5" {
		t.Fatalf("sum = %q, want 6.5", got)
	}
}

func TestCollectScalarNumericMean(t *testing.T) {
	op := opByName("mean")
	for _, v := range []float64{2, 4, 6} {
		op.collectScalarNumeric(v)
	}
	opts := DefaultTextOptions()
	if got := op.summarizeScalarNumeric(opts); got != "4" {
		t.Fatalf("mean = %q, want 4", got)
	}
}

func TestCollectScalarNumericMinMax(t *testing.T) {
	min := opByName("min")
	max := opByName("max")
	for _, v := range []float64{5, -3, 7, 2} {
		min.collectScalarNumeric(v)
		max.collectScalarNumeric(v)
	}
	opts := DefaultTextOptions()
	if got := min.summarizeScalarNumeric(opts); got != "-3" {
		t.Fatalf("min = %q, want -3", got)
	}
	if got := max.summarizeScalarNumeric(opts); got != "7" {
		t.Fatalf("max = %q, want 7", got)
	}
}

func TestCollectScalarNumericAbsMinMax(t *testing.T) {
	absmin := opByName("absmin")
	absmax := opByName("absmax")
	for _, v := range []float64{-5, 3, -1} {
		absmin.collectScalarNumeric(v)
		absmax.collectScalarNumeric(v)
	}
	opts := DefaultTextOptions()
	if got := absmin.summarizeScalarNumeric(opts); got != "1" {
		t.Fatalf("absmin = %q, want 1", got)
	}
	if got := absmax.summarizeScalarNumeric(opts); got != "5" {
		t.Fatalf("absmax = %q, want 5", got)
	}
}

func TestCollectScalarNumericRange(t *testing.T) {
	op := opByName("range")
	for _, v := range []float64{10, -2, 4} {
		op.collectScalarNumeric(v)
	}
	opts := DefaultTextOptions()
	if got := op.summarizeScalarNumeric(opts); got != "12" {
		t.Fatalf("range = %q, want 12", got)
	}
}

func TestCollectScalarTextCount(t *testing.T) {
	op := opByName("count")
	for i := 0; i < 3; i++ {
		op.collectScalarText("x", nil)
	}
	if got := op.summarizeScalarText(DefaultTextOptions()); got != "3" {
		t.Fatalf("count = %q, want 3", got)
	}
}

func TestCollectScalarTextFirstLast(t *testing.T) {
	first := opByName("first")
	last := opByName("last")
	for _, v := range []string{"a", "b", "c"} {
		first.collectScalarText(v, nil)
		last.collectScalarText(v, nil)
	}
	opts := DefaultTextOptions()
	if got := first.summarizeScalarText(opts); got != "a" {
		t.Fatalf("first = %q, want a", got)
	}
	if got := last.summarizeScalarText(opts); got != "c" {
		t.Fatalf("last = %q, want c", got)
	}
}

func TestFormatNumberRound(t *testing.T) {
	opts := DefaultTextOptions()
	opts.Round = 2
	if got := formatNumber(3.14159, opts); got != "3.14" {
		t.Fatalf("formatNumber = %q, want 3.14", got)
	}
}

func TestFormatNumberCustom(t *testing.T) {
	opts := DefaultTextOptions()
	opts.NumFormat = "%.1f"
	if got := formatNumber(2.0, opts); got != "2.0" {
		t.Fatalf("formatNumber = %q, want 2.0", got)
	}
}

func TestFormatNumberHexFloat(t *testing.T) {
	opts := DefaultTextOptions()
	opts.NumFormat = "%a"
	got := formatNumber(2.0, opts)
	want := fmt.Sprintf("%x", 2.0)
	if got != want {
		t.Fatalf("formatNumber(%%a) = %q, want %q", got, want)
	}
	if strings.Contains(got, "%!a") {
		t.Fatalf("formatNumber(%%a) leaked an unsupported verb: %q", got)
	}
}

func TestFormatNumberHexFloatUppercase(t *testing.T) {
	opts := DefaultTextOptions()
	opts.NumFormat = "%A"
	got := formatNumber(2.0, opts)
	want := fmt.Sprintf("%X", 2.0)
	if got != want {
		t.Fatalf("formatNumber(%%A) = %q, want %q", got, want)
	}
}

func TestValidateNumFormat(t *testing.T) {
	if err := ValidateNumFormat("%.3f"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateNumFormat("no directive"); err == nil {
		t.Fatalf("expected error for missing directive")
	}
	if err := ValidateNumFormat("%d"); err == nil {
		t.Fatalf("expected error for unsupported directive type")
	}
}

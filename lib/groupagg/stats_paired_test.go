package groupagg

import (
	"math"
	"testing"
)

func pairedOp(t *testing.T, name string) *OpInstance {
	spec, ok := lookupOpKindSpec(name)
	if !ok {
		t.Fatalf("no spec for %s", name)
	}
	return newOpInstance(spec, FieldRef{Number: 1})
}

func TestCovarianceSymmetric(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 5, 4, 5}
	if covariance(x, y, 0) != covariance(y, x, 0) {
		t.Fatalf("population covariance should be symmetric")
	}
	if covariance(x, y, 1) != covariance(y, x, 1) {
		t.Fatalf("sample covariance should be symmetric")
	}
}

func TestPearsonSymmetricAndBounded(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 5, 4, 5}
	p := pearson(x, y, 0)
	if math.Abs(p-pearson(y, x, 0)) > 1e-12 {
		t.Fatalf("pearson should be symmetric, got %v vs %v", p, pearson(y, x, 0))
	}
	if p < -1.0001 || p > 1.0001 {
		t.Fatalf("pearson coefficient out of range: %v", p)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	if got := pearson(x, y, 0); math.Abs(got-1) > 1e-9 {
		t.Fatalf("pearson(x, 2x) = %v, want 1", got)
	}
}

func TestSummarizePairedWiresSlaveAndMasterBuffers(t *testing.T) {
	slave := pairedOp(t, "pcov")
	slave.IsSlave = true
	master := pairedOp(t, "pcov")
	master.IsMaster = true

	xs := []float64{1, 2, 3}
	ys := []float64{4, 5, 7}
	for i := range xs {
		slave.collectVectorNumeric(xs[i])
		master.collectVectorNumeric(ys[i])
	}

	opts := DefaultTextOptions()
	got := master.summarizePaired(slave, opts)
	want := formatNumber(covariance(xs, ys, 0), opts)
	if got != want {
		t.Fatalf("summarizePaired(pcov) = %q, want %q", got, want)
	}
}

func TestSummarizePairedPPearson(t *testing.T) {
	slave := pairedOp(t, "ppearson")
	slave.IsSlave = true
	master := pairedOp(t, "ppearson")
	master.IsMaster = true

	xs := []float64{1, 2, 3, 4}
	ys := []float64{2, 4, 6, 8}
	for i := range xs {
		slave.collectVectorNumeric(xs[i])
		master.collectVectorNumeric(ys[i])
	}

	opts := DefaultTextOptions()
	got := master.summarizePaired(slave, opts)
	if got != formatNumber(1, opts) {
		t.Fatalf("ppearson of perfectly correlated series = %q, want %q", got, formatNumber(1, opts))
	}
}

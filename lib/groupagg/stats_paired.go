package groupagg

import "math"

// summarizePaired computes one of pcov/scov/ppearson/spearson over the
// master's own buffered values (y) and its slave's buffered values (x).
// Both buffers are filled in lockstep by the driver (see driver.go
// ingestPairedOp): a row only ever lands in one if it lands in the other,
// so len(x) == len(y) is an invariant here, not a check.
func (op *OpInstance) summarizePaired(slave *OpInstance, opts *TextOptions) string {
	x := slave.state.values
	y := op.state.values
	var v float64
	switch op.Spec.Kind {
	case OpPCov:
		v = covariance(x, y, 0)
	case OpSCov:
		v = covariance(x, y, 1)
	case OpPPearson:
		v = pearson(x, y, 0)
	case OpSPearson:
		v = pearson(x, y, 1)
	}
	return formatNumber(v, opts)
}

// covariance is the standard two-pass formula over buffered (x,y) pairs:
// population for df=0, sample for df=1. pcov(x:y) == pcov(y:x) by
// construction since the formula is symmetric in x/y.
func covariance(x, y []float64, df int) float64 {
	n := len(x)
	if n-df <= 0 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(n-df)
}

// pearson is the standard two-pass Pearson correlation coefficient.
// ppearson(x:y) == ppearson(y:x) since covariance and both stdevs are
// symmetric in x/y.
func pearson(x, y []float64, df int) float64 {
	cov := covariance(x, y, df)
	sx := math.Sqrt(variance(x, df))
	sy := math.Sqrt(variance(y, df))
	return cov / (sx * sy)
}

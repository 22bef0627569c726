package groupagg

import (
	"math"
	"sort"
)

// collectVectorNumeric buffers one value for an order-statistic /
// distribution-shape op. Buffering the whole group is required for
// correctness; streaming order statistics are out of scope here.
func (op *OpInstance) collectVectorNumeric(v float64) {
	op.state.values = append(op.state.values, v)
	op.state.count++
}

func (op *OpInstance) summarizeVectorNumeric(opts *TextOptions) string {
	vals := append([]float64(nil), op.state.values...)
	sort.Float64s(vals)

	var v float64
	switch op.Spec.Kind {
	case OpMedian:
		v = percentile(vals, 0.5)
	case OpQ1:
		v = percentile(vals, 0.25)
	case OpQ3:
		v = percentile(vals, 0.75)
	case OpIQR:
		v = percentile(vals, 0.75) - percentile(vals, 0.25)
	case OpPerc:
		v = percentile(vals, op.Param.floatOr(95)/100)
	case OpPStdev:
		v = math.Sqrt(variance(vals, 0))
	case OpSStdev:
		v = math.Sqrt(variance(vals, 1))
	case OpPVar:
		v = variance(vals, 0)
	case OpSVar:
		v = variance(vals, 1)
	case OpMad:
		v = medianAbsoluteDeviation(vals, 1.4826)
	case OpMadRaw:
		v = medianAbsoluteDeviation(vals, 1)
	case OpMode:
		v = modeValue(vals, true)
	case OpAntimode:
		v = modeValue(vals, false)
	case OpPSkew:
		v = skewness(vals, 0)
	case OpSSkew:
		v = skewness(vals, 1)
	case OpPKurt:
		v = kurtosis(vals, 0)
	case OpSKurt:
		v = kurtosis(vals, 1)
	case OpJarque:
		v = jarqueBera(vals)
	case OpDpo:
		v = dagostinoPearsonK2(vals)
	case OpTrimMean:
		v = trimmedMean(vals, op.Param.floatOr(0))
	}
	return formatNumber(v, opts)
}

// percentile implements the exact quantile formula:
// h = (n-1)*p, k = floor(h), result = v[k] + (h-k)*(v[k+1]-v[k]).
// vals must already be sorted ascending.
func percentile(vals []float64, p float64) float64 {
	n := len(vals)
	if n == 1 {
		return vals[0]
	}
	h := float64(n-1) * p
	k := int(math.Floor(h))
	if k >= n-1 {
		return vals[n-1]
	}
	frac := h - float64(k)
	return vals[k] + frac*(vals[k+1]-vals[k])
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// variance computes Σ(x-μ)²/(n-df): population variance for df=0, sample
// variance for df=1.
func variance(vals []float64, df int) float64 {
	n := len(vals)
	if n-df <= 0 {
		return math.NaN()
	}
	mu := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - mu
		sum += d * d
	}
	return sum / float64(n-df)
}

func medianAbsoluteDeviation(vals []float64, scale float64) float64 {
	med := percentile(vals, 0.5)
	devs := make([]float64, len(vals))
	for i, v := range vals {
		devs[i] = math.Abs(v - med)
	}
	sort.Float64s(devs)
	return scale * percentile(devs, 0.5)
}

// modeValue finds the longest (shortest, for antimode) run of equal values
// in the sorted sample, taking the first such run on ties.
func modeValue(vals []float64, wantLongest bool) float64 {
	bestVal := vals[0]
	bestLen := 0
	i := 0
	for i < len(vals) {
		j := i
		for j < len(vals) && vals[j] == vals[i] {
			j++
		}
		runLen := j - i
		better := bestLen == 0 ||
			(wantLongest && runLen > bestLen) ||
			(!wantLongest && runLen < bestLen)
		if better {
			bestLen = runLen
			bestVal = vals[i]
		}
		i = j
	}
	return bestVal
}

func skewness(vals []float64, df int) float64 {
	n := len(vals)
	mu := mean(vals)
	var m2, m3 float64
	for _, v := range vals {
		d := v - mu
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= float64(n)
	m3 /= float64(n)
	g1 := m3 / math.Pow(m2, 1.5)
	if df == 0 {
		return g1
	}
	if n <= 2 {
		return math.NaN()
	}
	fn := float64(n)
	return (math.Sqrt(fn*(fn-1)) / (fn - 2)) * g1
}

func kurtosis(vals []float64, df int) float64 {
	n := len(vals)
	if df == 1 && n <= 3 {
		return math.NaN()
	}
	mu := mean(vals)
	var m2, m4 float64
	for _, v := range vals {
		d := v - mu
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= float64(n)
	m4 /= float64(n)
	g2 := m4/(m2*m2) - 3
	if df == 0 {
		return g2
	}
	fn := float64(n)
	return ((fn-1)/((fn-2)*(fn-3)))*((fn+1)*g2+6)
}

// jarqueBera is the Jarque-Bera normality-test statistic, computed from the
// population skewness and kurtosis of the sample.
func jarqueBera(vals []float64) float64 {
	n := float64(len(vals))
	s := skewness(vals, 0)
	k := kurtosis(vals, 0)
	return (n / 6) * (s*s + (k*k)/4)
}

// dagostinoPearsonK2 is the D'Agostino-Pearson omnibus K² test statistic: it
// transforms the population skewness and kurtosis into approximately
// standard-normal z-scores and sums their squares. Requires n>3 for the
// kurtosis transform's variance term; returns NaN below that.
func dagostinoPearsonK2(vals []float64) float64 {
	n := float64(len(vals))
	if n <= 3 {
		return math.NaN()
	}
	g1 := skewness(vals, 0)
	g2 := kurtosis(vals, 0)

	// Skewness test statistic Z1.
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	z1 := delta * math.Log(y/alpha+math.Sqrt((y/alpha)*(y/alpha)+1))

	// Kurtosis test statistic Z2.
	ek := 3 * (n - 1) / (n + 1)
	varK := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	// kurtosis() returns excess kurtosis; ek and varK are moments of the
	// non-excess b2 = g2 + 3.
	x := (g2 + 3 - ek) / math.Sqrt(varK)
	beta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/beta1*(2/beta1+math.Sqrt(1+4/(beta1*beta1)))
	z2 := (1-2/(9*a) - math.Cbrt((1-2/a)/(1+x*math.Sqrt(2/(a-4))))) /
		math.Sqrt(2/(9*a))

	return z1*z1 + z2*z2
}

// trimmedMean drops floor(n*t) values from each tail of the sorted sample
// and averages the rest.
func trimmedMean(vals []float64, t float64) float64 {
	n := len(vals)
	trim := int(math.Floor(float64(n) * t))
	if 2*trim >= n {
		return math.NaN()
	}
	return mean(vals[trim : n-trim])
}

func (p OpParam) floatOr(def float64) float64 {
	if p.set {
		return p.f
	}
	return def
}

package groupagg

import (
	"math"
	"strconv"
)

// collectScalarNumeric updates the online numeric accumulators: sum, min,
// max, absmin, absmax, range, mean. sum/mean start at zero;
// min/max/absmin/absmax seed from the first observed value (AutoFirst).
func (op *OpInstance) collectScalarNumeric(v float64) {
	switch op.Spec.Kind {
	case OpSum, OpMean:
		op.state.sum += v
	case OpMin:
		if !op.state.haveExtrem || v < op.state.min {
			op.state.min = v
		}
		op.state.haveExtrem = true
	case OpMax:
		if !op.state.haveExtrem || v > op.state.max {
			op.state.max = v
		}
		op.state.haveExtrem = true
	case OpAbsMin:
		av := math.Abs(v)
		if !op.state.haveExtrem || av < op.state.min {
			op.state.min = av
		}
		op.state.haveExtrem = true
	case OpAbsMax:
		av := math.Abs(v)
		if !op.state.haveExtrem || av > op.state.max {
			op.state.max = av
		}
		op.state.haveExtrem = true
	case OpRange:
		if !op.state.haveExtrem || v < op.state.min {
			op.state.min = v
		}
		if !op.state.haveExtrem || v > op.state.max {
			op.state.max = v
		}
		op.state.haveExtrem = true
	}
	op.state.count++
}

// collectScalarText updates the scalar kinds that never parse their field
// as a number: count, first, last, rand. These are polymorphic over
// numeric/text input since they only ever move the raw value around,
// never compute with it.
func (op *OpInstance) collectScalarText(raw string, rs *randSource) {
	switch op.Spec.Kind {
	case OpCount:
		op.state.count++
	case OpFirst:
		if !op.state.haveFirst {
			op.state.firstText = raw
			op.state.haveFirst = true
		}
		op.state.count++
	case OpLast:
		op.state.lastText = raw
		op.state.count++
	case OpRand:
		op.collectRand(raw, rs)
	}
}

func (op *OpInstance) summarizeScalarNumeric(opts *TextOptions) string {
	switch op.Spec.Kind {
	case OpSum:
		return formatNumber(op.state.sum, opts)
	case OpMean:
		return formatNumber(op.state.sum/float64(op.state.count), opts)
	case OpMin, OpAbsMin:
		return formatNumber(op.state.min, opts)
	case OpMax, OpAbsMax:
		return formatNumber(op.state.max, opts)
	case OpRange:
		return formatNumber(op.state.max-op.state.min, opts)
	}
	return ""
}

func (op *OpInstance) summarizeScalarText(opts *TextOptions) string {
	switch op.Spec.Kind {
	case OpCount:
		return strconv.FormatUint(op.state.count, 10)
	case OpFirst:
		return op.state.firstText
	case OpLast:
		return op.state.lastText
	case OpRand:
		return op.summarizeRand()
	}
	return ""
}

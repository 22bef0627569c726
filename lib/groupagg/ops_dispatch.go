package groupagg

import "github.com/VictoriaMetrics/vmdatamash/lib/bytesutil"

// Collect ingests one record's field value into op's accumulator. It is
// never called for paired ops (catPairedNumeric) or transforms
// (catTransform) - the driver handles those separately, see
// driver.go:ingestPairedOp and transform.go:ApplyTransform.
//
// The string(raw) conversions below use bytesutil's unsafe form rather than
// a copying one: raw always points into one Record's own backing array,
// which LineReader.Next() freshly allocates per call (bufio.ReadBytes never
// hands back a reused buffer), so a text op that retains the string across
// the life of a group (first/last/unique/collapse) never observes it
// mutated out from under it.
func (op *OpInstance) Collect(raw []byte, rs *randSource, lineNo, fieldNo int, opts *TextOptions) error {
	cat := op.Spec.Category
	switch {
	case cat&catScalarText != 0:
		op.collectScalarText(bytesutil.ToUnsafeString(raw), rs)
		return nil
	case cat&catScalarNumeric != 0:
		v, err := parseNumeric(raw)
		if err != nil {
			if opts.NArm {
				return nil
			}
			return &NumericError{Line: lineNo, Field: fieldNo, Value: string(raw)}
		}
		op.collectScalarNumeric(v)
		return nil
	case cat&catVectorNumeric != 0:
		v, err := parseNumeric(raw)
		if err != nil {
			if opts.NArm {
				return nil
			}
			return &NumericError{Line: lineNo, Field: fieldNo, Value: string(raw)}
		}
		op.collectVectorNumeric(v)
		return nil
	case cat&catVectorText != 0:
		op.collectVectorText(bytesutil.ToUnsafeString(raw), opts)
		return nil
	}
	return parseErrorf("internal: op kind %s cannot be collected via group driver", op.Spec.Name)
}

// Summarize finalizes op's accumulated state into its output string. ops is
// the owning plan's full operation list, needed so a paired master can
// reach its slave's buffer by index.
func (op *OpInstance) Summarize(ops []*OpInstance, opts *TextOptions) string {
	if op.IsMaster {
		return op.summarizePaired(ops[op.SlaveIdx], opts)
	}
	cat := op.Spec.Category
	switch {
	case cat&catScalarText != 0:
		return op.summarizeScalarText(opts)
	case cat&catScalarNumeric != 0:
		return op.summarizeScalarNumeric(opts)
	case cat&catVectorNumeric != 0:
		return op.summarizeVectorNumeric(opts)
	case cat&catVectorText != 0:
		return op.summarizeVectorText(opts)
	}
	return ""
}

// Reset clears op's accumulator for the next group.
func (op *OpInstance) Reset() {
	op.state = opState{}
}

// Count reports how many records this op has ingested in the current group
// (invariant: count reflects --narm-filtered ingestion).
func (op *OpInstance) Count() uint64 { return op.state.count }

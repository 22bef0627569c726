package groupagg

import (
	"sort"
	"strconv"
	"strings"
)

// foldKey applies the run's configured casing rule to a dedup key.
func foldKey(raw string, caseInsensitive bool) string {
	if !caseInsensitive {
		return raw
	}
	return foldCase(raw)
}

// collectVectorText buffers one value for a text-set/sequence op: unique,
// collapse, countunique.
func (op *OpInstance) collectVectorText(raw string, opts *TextOptions) {
	op.state.count++
	switch op.Spec.Kind {
	case OpCollapse:
		op.state.textOrder = append(op.state.textOrder, raw)
	case OpUnique, OpCountUnique:
		key := foldKey(raw, opts.CaseInsensitive)
		if op.state.seen == nil {
			op.state.seen = make(map[string]struct{})
		}
		if _, ok := op.state.seen[key]; !ok {
			op.state.seen[key] = struct{}{}
			op.state.seenOrder = append(op.state.seenOrder, raw)
		}
	}
}

func (op *OpInstance) summarizeVectorText(opts *TextOptions) string {
	switch op.Spec.Kind {
	case OpCollapse:
		return strings.Join(op.state.textOrder, ",")
	case OpUnique:
		out := append([]string(nil), op.state.seenOrder...)
		if opts.CaseInsensitive {
			sort.Slice(out, func(i, j int) bool {
				return foldCase(out[i]) < foldCase(out[j])
			})
		} else {
			sort.Strings(out)
		}
		return strings.Join(out, ",")
	case OpCountUnique:
		return strconv.Itoa(len(op.state.seenOrder))
	}
	return ""
}

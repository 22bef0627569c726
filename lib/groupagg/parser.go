package groupagg

import "strconv"

// ParseProgram parses a DSL argument vector into a ProgramPlan
// (program := mode_or_op). args is the already-flag-stripped
// positional argument list; cmd/vmdatamash is responsible for translating
// a bare "-g X,Y" flag into a leading "groupby X,Y" prefix before calling
// this, since the grammar itself knows nothing about CLI flags.
func ParseProgram(args []string) (*ProgramPlan, error) {
	lx := newLexer(args)
	lx.next()

	plan := &ProgramPlan{CheckExpectLines: -1, CheckExpectFields: -1}

	if lx.tok == tokEOF {
		return nil, parseErrorf("empty operation list")
	}

	switch {
	case lx.isKeyword("groupby"):
		lx.next()
		cols, err := parseColList(lx)
		if err != nil {
			return nil, err
		}
		ops, err := parseOpList(lx, 0)
		if err != nil {
			return nil, err
		}
		plan.Mode = ModeGroupBy
		plan.GroupBy = cols
		plan.Ops = ops

	case lx.isKeyword("crosstab"):
		lx.next()
		cols, err := parseColList(lx)
		if err != nil {
			return nil, err
		}
		plan.Mode = ModeCrosstab
		plan.GroupBy = cols
		if lx.tok != tokEOF {
			ops, err := parseOpList(lx, 0)
			if err != nil {
				return nil, err
			}
			plan.Ops = ops
		}
		if len(plan.GroupBy) != 2 {
			return nil, planErrorf("crosstab requires exactly two group columns, got %d", len(plan.GroupBy))
		}
		if len(plan.Ops) > 1 {
			return nil, planErrorf("crosstab accepts at most one operation")
		}

	case lx.isKeyword("transpose"):
		lx.next()
		plan.Mode = ModeTranspose

	case lx.isKeyword("reverse"):
		lx.next()
		plan.Mode = ModeReverse

	case lx.isKeyword("noop"):
		lx.next()
		plan.Mode = ModeNoop

	case lx.isKeyword("rmdup"):
		lx.next()
		cols, err := parseColList(lx)
		if err != nil {
			return nil, err
		}
		plan.Mode = ModeRmdup
		plan.GroupBy = cols

	case lx.isKeyword("check"):
		lx.next()
		if err := parseCheckArgs(lx, plan); err != nil {
			return nil, err
		}
		plan.Mode = ModeCheck

	default:
		ops, err := parseOpList(lx, -1)
		if err != nil {
			return nil, err
		}
		plan.Ops = ops
		plan.Mode = ModeGroupBy
		if len(ops) > 0 && ops[0].Spec.ImpliesPerLine {
			plan.Mode = ModePerLine
		}
	}

	if lx.tok != tokEOF {
		return nil, parseErrorf("unexpected trailing token %q", lx.text)
	}
	if err := linkPairs(plan.Ops); err != nil {
		return nil, err
	}
	return plan, nil
}

// linkPairs sets SlaveIdx on every master op by scanning for the slave each
// paired op() call pushed immediately before it (: "master.
// slave_idx points to the immediately preceding slave").
func linkPairs(ops []*OpInstance) error {
	for i, op := range ops {
		if !op.IsMaster {
			continue
		}
		if i == 0 || !ops[i-1].IsSlave {
			return planErrorf("%s: paired operation has no preceding slave field", op.Spec.Name)
		}
		op.SlaveIdx = i - 1
	}
	return nil
}

// parseColList parses col_list := col {"," col}, where a col is a bare
// field reference (number or name), used by groupby/crosstab/rmdup.
func parseColList(lx *lexer) ([]FieldRef, error) {
	var cols []FieldRef
	for {
		ref, err := parseFieldToken(lx)
		if err != nil {
			return nil, err
		}
		cols = append(cols, ref)
		if lx.tok != tokComma {
			break
		}
		lx.next()
	}
	return cols, nil
}

// requirePerLine: -1 infer from the first op and enforce consistency
// across the rest of the list; 0 every op must NOT imply per-line mode
// (explicit groupby/crosstab); 1 every op must imply per-line mode.
func parseOpList(lx *lexer, requirePerLine int) ([]*OpInstance, error) {
	var all []*OpInstance
	for {
		ops, err := parseOp(lx, requirePerLine)
		if err != nil {
			return nil, err
		}
		all = append(all, ops...)
		if requirePerLine == -1 && len(ops) > 0 {
			if ops[0].Spec.ImpliesPerLine {
				requirePerLine = 1
			} else {
				requirePerLine = 0
			}
		}
		if lx.tok == tokEOF || lx.tok == tokComma {
			break
		}
	}
	return all, nil
}

// parseOp parses one "op_name [':' param] field_spec_list" production and
// expands it into one OpInstance per field_spec (range specs explode into
// one instance per field; pair specs produce a slave+master pair).
func parseOp(lx *lexer, requirePerLine int) ([]*OpInstance, error) {
	if lx.tok != tokIdent {
		return nil, parseErrorf("expected operation name, got %q", lx.text)
	}
	name := lx.text
	spec, ok := lookupOpKindSpec(name)
	if !ok {
		return nil, parseErrorf("unknown operation %q", name)
	}
	if requirePerLine == 0 && spec.ImpliesPerLine {
		return nil, parseErrorf("%q is a per-line transform and cannot be combined with grouped operations", name)
	}
	if requirePerLine == 1 && !spec.ImpliesPerLine {
		return nil, parseErrorf("%q cannot be combined with per-line transforms", name)
	}
	lx.next()

	param, err := parseOpParam(lx, spec)
	if err != nil {
		return nil, err
	}

	specs, err := parseFieldSpecList(lx)
	if err != nil {
		return nil, err
	}

	var out []*OpInstance
	for _, fs := range specs {
		switch fs.kind {
		case fieldSpecSingle:
			op := newOpInstance(spec, fs.a)
			op.Param = param
			out = append(out, op)

		case fieldSpecRange:
			if fs.a.IsNamed() || fs.b.IsNamed() {
				return nil, parseErrorf("%s: range field spec requires numeric endpoints", name)
			}
			if fs.a.Number >= fs.b.Number {
				return nil, parseErrorf("%s: range endpoints must satisfy X < Y (got %d-%d)", name, fs.a.Number, fs.b.Number)
			}
			for n := fs.a.Number; n <= fs.b.Number; n++ {
				op := newOpInstance(spec, FieldRef{Number: n})
				op.Param = param
				out = append(out, op)
			}

		case fieldSpecPair:
			if !spec.Pairable {
				return nil, parseErrorf("%s does not accept a paired field spec", name)
			}
			slave := newOpInstance(spec, fs.a)
			slave.IsSlave = true
			slave.Param = param
			master := newOpInstance(spec, fs.b)
			master.IsMaster = true
			master.Param = param
			out = append(out, slave, master)
		}
	}
	return out, nil
}

// parseOpParam parses the optional ":"param following an op name. The lexer
// skips whitespace, so "foo: 10" and "foo:10" parse alike; a second ':'
// after the parameter value ("foo:10:4" or "foo:10: 4") is rejected here as
// a second parameter, so "4" is never taken as one.
func parseOpParam(lx *lexer, spec *OpKindSpec) (OpParam, error) {
	var param OpParam
	if lx.tok != tokColon {
		return param, nil
	}
	if spec.Param == paramNone {
		return param, parseErrorf("%s does not accept a parameter", spec.Name)
	}
	lx.next()
	switch lx.tok {
	case tokInt, tokDecimal, tokIdent:
	default:
		return param, parseErrorf("%s: expected a parameter value, got %q", spec.Name, lx.text)
	}
	text := lx.text
	switch spec.Param {
	case paramBin, paramPerc, paramTrimMean:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return param, parseErrorf("%s: invalid numeric parameter %q", spec.Name, text)
		}
		if (spec.Param == paramPerc && (f < 1 || f > 100)) ||
			(spec.Param == paramTrimMean && (f < 0 || f > 0.5)) {
			return param, parseErrorf("%s: parameter %q out of range", spec.Name, text)
		}
		param = OpParam{set: true, f: f}
	case paramStrBin:
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			return param, parseErrorf("%s: invalid bucket count %q", spec.Name, text)
		}
		param = OpParam{set: true, isInt: true, i: n}
	case paramGetNum:
		param = OpParam{set: true, str: text}
	}
	lx.next()

	// A second, contiguous ":" would be a second parameter; every op kind
	// in opKindSpecs accepts at most one, so this is always an error.
	if lx.tok == tokColon {
		return param, parseErrorf("%s: takes at most one parameter", spec.Name)
	}
	return param, nil
}

type fieldSpecKind int

const (
	fieldSpecSingle fieldSpecKind = iota
	fieldSpecRange
	fieldSpecPair
)

type fieldSpec struct {
	kind fieldSpecKind
	a, b FieldRef
}

// parseFieldSpecList parses field_spec_list := field_spec {"," field_spec}.
func parseFieldSpecList(lx *lexer) ([]fieldSpec, error) {
	var out []fieldSpec
	for {
		fs, err := parseFieldSpec(lx)
		if err != nil {
			return nil, err
		}
		out = append(out, fs)
		if lx.tok != tokComma {
			break
		}
		lx.next()
	}
	return out, nil
}

// parseFieldSpec parses field_spec := field ["-" field | ":" field].
func parseFieldSpec(lx *lexer) (fieldSpec, error) {
	a, err := parseFieldToken(lx)
	if err != nil {
		return fieldSpec{}, err
	}
	switch lx.tok {
	case tokDash:
		lx.next()
		b, err := parseFieldToken(lx)
		if err != nil {
			return fieldSpec{}, err
		}
		return fieldSpec{kind: fieldSpecRange, a: a, b: b}, nil
	case tokColon:
		lx.next()
		b, err := parseFieldToken(lx)
		if err != nil {
			return fieldSpec{}, err
		}
		return fieldSpec{kind: fieldSpecPair, a: a, b: b}, nil
	default:
		return fieldSpec{kind: fieldSpecSingle, a: a}, nil
	}
}

// parseFieldToken parses a single field reference: a 1-based integer or a
// bare identifier naming a header column.
func parseFieldToken(lx *lexer) (FieldRef, error) {
	switch lx.tok {
	case tokInt:
		n, err := strconv.Atoi(lx.text)
		if err != nil || n < 1 {
			return FieldRef{}, parseErrorf("invalid field number %q", lx.text)
		}
		ref := FieldRef{Number: n}
		lx.next()
		return ref, nil
	case tokIdent:
		ref := FieldRef{Name: lx.text}
		lx.next()
		return ref, nil
	default:
		return FieldRef{}, parseErrorf("expected a field reference, got %q", lx.text)
	}
}

// parseCheckArgs parses check_args := [int [int]], the optional expected
// line count and expected field count for "check" mode.
func parseCheckArgs(lx *lexer, plan *ProgramPlan) error {
	if lx.tok == tokEOF {
		return nil
	}
	n, err := parseCheckInt(lx)
	if err != nil {
		return err
	}
	plan.CheckExpectLines = n
	if lx.tok == tokEOF {
		return nil
	}
	m, err := parseCheckInt(lx)
	if err != nil {
		return err
	}
	plan.CheckExpectFields = m
	return nil
}

func parseCheckInt(lx *lexer) (int, error) {
	if lx.tok != tokInt {
		return 0, parseErrorf("check: expected an integer, got %q", lx.text)
	}
	n, err := strconv.Atoi(lx.text)
	if err != nil || n < 0 {
		return 0, parseErrorf("check: invalid count %q", lx.text)
	}
	lx.next()
	return n, nil
}

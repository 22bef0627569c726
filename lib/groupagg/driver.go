package groupagg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/VictoriaMetrics/vmdatamash/lib/encoding"
)

// RunStats is the narrow counter interface the driver reports through; it is
// satisfied by *lib/metrics.RunStats, kept as an interface here so this
// package does not have to import the metrics wrapper it has no other use
// for.
type RunStats interface {
	IncRows()
	IncGroupsClosed()
	IncNumericErrors()
}

// Driver runs one ProgramPlan against a stream of records.
// It is built once per invocation and its Run method is called exactly
// once.
type Driver struct {
	plan *ProgramPlan
	opts *TextOptions
	rs   *randSource
	stats RunStats

	header   *ColumnHeader
	groupIdx []int
	errOut   io.Writer
}

// NewDriver builds a Driver for plan under opts. rs may be nil only if the
// plan contains no "rand" operation; stats may be nil to disable counters.
func NewDriver(plan *ProgramPlan, opts *TextOptions, rs *randSource, stats RunStats) *Driver {
	return &Driver{plan: plan, opts: opts, rs: rs, stats: stats}
}

// SetErrOutput overrides where runCheck reports ragged records (default
// os.Stderr, "on failure prints the offending record(s) to
// stderr").
func (d *Driver) SetErrOutput(w io.Writer) { d.errOut = w }

// Run dispatches to the mode-specific driver loop ("mode" enum).
func (d *Driver) Run(in io.Reader, out io.Writer) error {
	switch d.plan.Mode {
	case ModePerLine:
		return d.runPerLine(in, out)
	case ModeTranspose:
		return d.runTranspose(in, out)
	case ModeReverse:
		return d.runReverse(in, out)
	case ModeNoop:
		return d.runNoop(in, out)
	case ModeRmdup:
		return d.runRmdup(in, out)
	case ModeCheck:
		return d.runCheck(in, out)
	case ModeCrosstab:
		return d.runCrosstab(in, out)
	default:
		return d.runGroupBy(in, out)
	}
}

func (d *Driver) resolveGroupIdx(refs []FieldRef) ([]int, error) {
	idx := make([]int, len(refs))
	for i, ref := range refs {
		n, err := ref.Resolve(d.header)
		if err != nil {
			return nil, err
		}
		idx[i] = n
	}
	return idx, nil
}

// fieldOrFiller returns rec's idx-th field. In strict mode (the default) an
// out-of-range field is a *ShapeError; in non-strict mode it falls back to
// the configured filler instead of failing the whole run.
func (d *Driver) fieldOrFiller(rec *Record, idx, lineNo int) ([]byte, error) {
	raw, ok := rec.Field(idx, d.opts.InputDelim)
	if ok {
		return raw, nil
	}
	if d.opts.Strict {
		return nil, shapeErrorf("line %d: field %d out of range", lineNo, idx)
	}
	return []byte(d.opts.Filler), nil
}

// encodeGroupKey builds a length-prefixed composite key (lib/encoding) over
// the group-by field values of rec, lower-cased first when case-insensitive
// grouping is requested.
func encodeGroupKey(rec *Record, groupIdx []int, delim FieldDelim, caseInsensitive bool, dst []byte) []byte {
	dst = dst[:0]
	for _, n := range groupIdx {
		raw, _ := rec.Field(n, delim)
		if caseInsensitive {
			raw = []byte(foldCase(string(raw)))
		}
		dst = encoding.MarshalBytes(dst, raw)
	}
	return dst
}

// runGroupBy is the core grouped-aggregation loop: input is
// assumed already sorted on the group-by columns (or piped through
// sortbridge.go beforehand), so group membership is a run of adjacent
// records sharing one key - not an arbitrary hash-merge of the whole
// stream. A group closes and is emitted the moment the key changes.
func (d *Driver) runGroupBy(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	var rec, groupRec Record
	haveGroup := false
	var curKeyHash uint64
	var curKeyBuf []byte
	headerPrinted := false
	firstFieldCount := -1
	headerPending := d.opts.HeaderIn

	emit := func() error {
		if !haveGroup {
			return nil
		}
		if d.opts.HeaderOut && !headerPrinted {
			if err := d.writeGroupHeader(bw); err != nil {
				return err
			}
			headerPrinted = true
		}
		if err := d.emitGroup(bw, &groupRec); err != nil {
			return err
		}
		for _, op := range d.plan.Ops {
			op.Reset()
		}
		if d.stats != nil {
			d.stats.IncGroupsClosed()
		}
		return nil
	}

	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}

		if headerPending {
			d.header = NewColumnHeaderFromNames(splitHeaderFields(line, d.opts.InputDelim))
			headerPending = false
			if rerr == io.EOF {
				break
			}
			continue
		}

		rec.Reset(line)
		fc := rec.FieldCount(d.opts.InputDelim)
		if d.header == nil {
			d.header = NewColumnHeaderFromCount(fc)
			firstFieldCount = fc
		} else if d.opts.Strict && firstFieldCount != -1 && fc != firstFieldCount {
			return shapeErrorf("line %d: expected %d fields, got %d", lineNo, firstFieldCount, fc)
		} else if firstFieldCount == -1 {
			firstFieldCount = fc
		}

		if d.groupIdx == nil {
			idx, err := d.resolveGroupIdx(d.plan.GroupBy)
			if err != nil {
				return err
			}
			d.groupIdx = idx
		}

		keyBuf := encodeGroupKey(&rec, d.groupIdx, d.opts.InputDelim, d.opts.CaseInsensitive, nil)
		keyHash := xxhash.Sum64(keyBuf)
		boundary := !haveGroup || keyHash != curKeyHash || !bytes.Equal(keyBuf, curKeyBuf)
		if boundary {
			if err := emit(); err != nil {
				return err
			}
			groupRec.Reset(line)
			haveGroup = true
			curKeyHash = keyHash
			curKeyBuf = keyBuf
		}

		if err := d.ingestRecord(&rec, lineNo); err != nil {
			return err
		}
		if d.stats != nil {
			d.stats.IncRows()
		}

		if rerr == io.EOF {
			break
		}
	}
	if !haveGroup {
		return d.emitEmptyHeader(bw, headerPrinted)
	}
	return emit()
}

// emitEmptyHeader prints the header row alone for an input stream that
// produced zero data records, so "--header-out" output is still just the
// header rather than nothing at all. Group-by indices and field names are
// resolved the same way a real record would resolve them, working from the
// plan's FieldRefs and any header-in row consumed before EOF; with no data
// present, the synthesized header names "field-1" up to the highest field
// number the plan references.
func (d *Driver) emitEmptyHeader(bw *bufio.Writer, headerPrinted bool) error {
	if !d.opts.HeaderOut || headerPrinted {
		return nil
	}
	if d.groupIdx == nil {
		idx, err := d.resolveGroupIdx(d.plan.GroupBy)
		if err != nil {
			return err
		}
		d.groupIdx = idx
	}
	if d.header == nil {
		d.header = NewColumnHeaderFromCount(d.maxFieldNumber())
	}
	return d.writeGroupHeader(bw)
}

// maxFieldNumber returns the highest 1-based field number referenced by the
// plan's group-by columns or operations, used to size a synthesized
// "field-N" header for a run that never saw a data record.
func (d *Driver) maxFieldNumber() int {
	max := 0
	for _, gi := range d.groupIdx {
		if gi > max {
			max = gi
		}
	}
	for _, op := range d.plan.Ops {
		if op.Field.Number > max {
			max = op.Field.Number
		}
	}
	return max
}

// ingestRecord feeds one record's relevant fields into every op in the
// current group, special-casing adjacent slave/master pairs so that either
// side's numeric failure fails (or narm-skips) both in lockstep.
func (d *Driver) ingestRecord(rec *Record, lineNo int) error {
	ops := d.plan.Ops
	for i := 0; i < len(ops); i++ {
		op := ops[i]
		if op.Spec.Category&catPairedNumeric != 0 {
			if op.IsMaster {
				continue // consumed together with its slave below
			}
			master := ops[i+1]
			if err := d.ingestPairedOp(rec, op, master, lineNo); err != nil {
				return err
			}
			i++
			continue
		}
		idx, err := op.Field.Resolve(d.header)
		if err != nil {
			return err
		}
		raw, err := d.fieldOrFiller(rec, idx, lineNo)
		if err != nil {
			return err
		}
		if err := op.Collect(raw, d.rs, lineNo, idx, d.opts); err != nil {
			if _, isNumeric := err.(*NumericError); isNumeric && d.stats != nil {
				d.stats.IncNumericErrors()
			}
			return err
		}
	}
	return nil
}

func (d *Driver) ingestPairedOp(rec *Record, slave, master *OpInstance, lineNo int) error {
	xi, err := slave.Field.Resolve(d.header)
	if err != nil {
		return err
	}
	yi, err := master.Field.Resolve(d.header)
	if err != nil {
		return err
	}
	xraw, err := d.fieldOrFiller(rec, xi, lineNo)
	if err != nil {
		return err
	}
	yraw, err := d.fieldOrFiller(rec, yi, lineNo)
	if err != nil {
		return err
	}
	x, xerr := parseNumeric(xraw)
	y, yerr := parseNumeric(yraw)
	if xerr != nil || yerr != nil {
		if d.opts.NArm {
			return nil
		}
		if d.stats != nil {
			d.stats.IncNumericErrors()
		}
		if xerr != nil {
			return &NumericError{Line: lineNo, Field: xi, Value: string(xraw)}
		}
		return &NumericError{Line: lineNo, Field: yi, Value: string(yraw)}
	}
	slave.collectVectorNumeric(x)
	master.collectVectorNumeric(y)
	return nil
}

func (d *Driver) emitGroup(bw *bufio.Writer, groupRec *Record) error {
	var cols []string
	if d.opts.FullLine {
		cols = append(cols, string(groupRec.Raw()))
	} else {
		for _, gi := range d.groupIdx {
			raw, _ := groupRec.Field(gi, d.opts.InputDelim)
			cols = append(cols, string(raw))
		}
	}
	for _, op := range d.plan.Ops {
		if op.IsSlave {
			continue
		}
		cols = append(cols, op.Summarize(d.plan.Ops, d.opts))
	}
	return writeDelimited(bw, cols, d.opts.OutputDelim, d.opts.EndOfRecord)
}

func (d *Driver) writeGroupHeader(bw *bufio.Writer) error {
	var cols []string
	if d.opts.FullLine {
		cols = append(cols, "full-line")
	} else {
		for _, gi := range d.groupIdx {
			cols = append(cols, fmt.Sprintf("GroupBy(%s)", d.header.Name(gi)))
		}
	}
	cols = append(cols, opHeaderLabels(d.plan.Ops, d.header)...)
	return writeDelimited(bw, cols, d.opts.OutputDelim, d.opts.EndOfRecord)
}

// opHeaderLabels renders "<op>(<col>)" per operation, "<op>(<slaveCol>:
// <col>)" for a paired op, and "<op>:<param>(<col>)" for perc/trimmean
// (--header-out). <col> is the column's name in h when h knows it, else the
// field reference as written.
func opHeaderLabels(ops []*OpInstance, h *ColumnHeader) []string {
	colName := func(f FieldRef) string {
		if h != nil {
			if n, err := f.Resolve(h); err == nil && h.Name(n) != "" {
				return h.Name(n)
			}
		}
		return f.String()
	}
	var cols []string
	for _, op := range ops {
		if op.IsSlave {
			continue
		}
		name := op.Spec.Name
		if op.Param.set {
			switch op.Spec.Param {
			case paramPerc:
				name = fmt.Sprintf("%s:%v", name, op.Param.floatOr(0))
			case paramTrimMean:
				name = fmt.Sprintf("%s:%v", name, op.Param.floatOr(0))
			}
		}
		if op.IsMaster {
			slave := ops[op.SlaveIdx]
			cols = append(cols, fmt.Sprintf("%s(%s:%s)", name, colName(slave.Field), colName(op.Field)))
			continue
		}
		cols = append(cols, fmt.Sprintf("%s(%s)", name, colName(op.Field)))
	}
	return cols
}

func writeDelimited(bw *bufio.Writer, cols []string, delim, term byte) error {
	for i, c := range cols {
		if i > 0 {
			if err := bw.WriteByte(delim); err != nil {
				return ioErrorf(err, "writing output")
			}
		}
		if _, err := bw.WriteString(c); err != nil {
			return ioErrorf(err, "writing output")
		}
	}
	if err := bw.WriteByte(term); err != nil {
		return ioErrorf(err, "writing output")
	}
	return nil
}

func splitHeaderFields(line []byte, delim FieldDelim) []string {
	return SplitRecordFields(line, delim)
}

// SplitRecordFields splits line into its field strings under delim. Exposed
// for callers (cmd/vmdatamash's sort-bridge wiring) that need to resolve a
// named group-by column from a raw header line before a Driver exists.
func SplitRecordFields(line []byte, delim FieldDelim) []string {
	starts, ends := splitFields(line, delim, nil, nil)
	names := make([]string, len(starts))
	for i := range starts {
		names[i] = string(line[starts[i]:ends[i]])
	}
	return names
}

// runPerLine applies a list of pure per-line transforms to every record,
// one field in, one field out, with no grouping at all: in per-line mode,
// every record is its own group.
func (d *Driver) runPerLine(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	var rec Record
	headerPending := d.opts.HeaderIn
	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		if headerPending {
			d.header = NewColumnHeaderFromNames(splitHeaderFields(line, d.opts.InputDelim))
			headerPending = false
			if d.opts.HeaderOut {
				if err := writeDelimited(bw, transformHeaderCols(d.plan.Ops, d.header), d.opts.OutputDelim, d.opts.EndOfRecord); err != nil {
					return err
				}
			}
			if rerr == io.EOF {
				break
			}
			continue
		}
		rec.Reset(line)
		cols := make([]string, 0, len(d.plan.Ops))
		for _, op := range d.plan.Ops {
			idx, err := op.Field.Resolve(d.header)
			if err != nil {
				return err
			}
			raw, err := d.fieldOrFiller(&rec, idx, lineNo)
			if err != nil {
				return err
			}
			v, err := op.ApplyTransform(raw, d.opts)
			if err != nil {
				return err
			}
			cols = append(cols, v)
		}
		if err := writeDelimited(bw, cols, d.opts.OutputDelim, d.opts.EndOfRecord); err != nil {
			return err
		}
		if d.stats != nil {
			d.stats.IncRows()
		}
		if rerr == io.EOF {
			break
		}
	}
	return nil
}

func transformHeaderCols(ops []*OpInstance, h *ColumnHeader) []string {
	return opHeaderLabels(ops, h)
}

// runTranspose swaps rows and columns of the whole input: it must buffer
// the entire stream since row N's output depends on every input row's
// N-th field.
func (d *Driver) runTranspose(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	var rows [][]string
	width := -1
	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		fields := splitHeaderFields(line, d.opts.InputDelim)
		if width == -1 {
			width = len(fields)
		} else if d.opts.Strict && len(fields) != width {
			return shapeErrorf("line %d: expected %d fields, got %d", lineNo, width, len(fields))
		}
		rows = append(rows, fields)
		if rerr == io.EOF {
			break
		}
	}
	bw := bufio.NewWriter(out)
	defer bw.Flush()
	for col := 0; col < width; col++ {
		cols := make([]string, len(rows))
		for r, row := range rows {
			if col < len(row) {
				cols[r] = row[col]
			} else {
				cols[r] = d.opts.Filler
			}
		}
		if err := writeDelimited(bw, cols, d.opts.OutputDelim, d.opts.EndOfRecord); err != nil {
			return err
		}
	}
	return nil
}

// runReverse reverses the field order of every record, line by line, no
// buffering needed.
func (d *Driver) runReverse(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	bw := bufio.NewWriter(out)
	defer bw.Flush()
	for {
		line, _, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		fields := splitHeaderFields(line, d.opts.InputDelim)
		for i, j := 0, len(fields)-1; i < j; i, j = i+1, j-1 {
			fields[i], fields[j] = fields[j], fields[i]
		}
		if err := writeDelimited(bw, fields, d.opts.OutputDelim, d.opts.EndOfRecord); err != nil {
			return err
		}
		if rerr == io.EOF {
			break
		}
	}
	return nil
}

// runNoop passes every record through unchanged except for re-splitting and
// re-joining on the configured delimiters ("noop" mode),
// mainly useful for delimiter conversion (-t in, --output-delimiter out).
func (d *Driver) runNoop(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	bw := bufio.NewWriter(out)
	defer bw.Flush()
	for {
		line, _, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		fields := splitHeaderFields(line, d.opts.InputDelim)
		if err := writeDelimited(bw, fields, d.opts.OutputDelim, d.opts.EndOfRecord); err != nil {
			return err
		}
		if rerr == io.EOF {
			break
		}
	}
	return nil
}

// runRmdup keeps only the first record of every contiguous group on the
// group-by columns, emitting it verbatim ("rmdup" mode).
func (d *Driver) runRmdup(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	var rec Record
	haveGroup := false
	var curKeyHash uint64
	var curKeyBuf []byte

	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		rec.Reset(line)
		_ = rec.FieldCount(d.opts.InputDelim)
		if d.header == nil {
			d.header = NewColumnHeaderFromCount(rec.FieldCount(d.opts.InputDelim))
		}
		if d.groupIdx == nil {
			idx, err := d.resolveGroupIdx(d.plan.GroupBy)
			if err != nil {
				return err
			}
			d.groupIdx = idx
		}
		keyBuf := encodeGroupKey(&rec, d.groupIdx, d.opts.InputDelim, d.opts.CaseInsensitive, nil)
		keyHash := xxhash.Sum64(keyBuf)
		if !haveGroup || keyHash != curKeyHash || !bytes.Equal(keyBuf, curKeyBuf) {
			if err := bw.WriteString(string(line)); err != nil {
				return ioErrorf(err, "writing output")
			}
			if err := bw.WriteByte(d.opts.EndOfRecord); err != nil {
				return ioErrorf(err, "writing output")
			}
			haveGroup = true
			curKeyHash = keyHash
			curKeyBuf = keyBuf
		}
		if rerr == io.EOF {
			break
		}
		_ = lineNo
	}
	return nil
}

// runCheck validates that every record has the same field count (and,
// optionally, the exact line/field counts requested in the DSL), printing a
// one-line summary on success ("check" mode).
func (d *Driver) runCheck(in io.Reader, out io.Writer) error {
	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	lines := 0
	width := -1
	var ragged [][]byte
	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		fc := len(splitHeaderFields(line, d.opts.InputDelim))
		if width == -1 {
			width = fc
		} else if fc != width {
			ragged = append(ragged, line)
			_ = lineNo
		}
		lines++
		if rerr == io.EOF {
			break
		}
	}

	if len(ragged) > 0 {
		errOut := d.errOut
		if errOut == nil {
			errOut = os.Stderr
		}
		for _, line := range ragged {
			fmt.Fprintln(errOut, string(line))
		}
		return shapeErrorf("%d line(s) disagree with the first record's field count", len(ragged))
	}
	if d.plan.CheckExpectLines >= 0 && lines != d.plan.CheckExpectLines {
		return shapeErrorf("expected %d line(s), got %d", d.plan.CheckExpectLines, lines)
	}
	if d.plan.CheckExpectFields >= 0 && width != d.plan.CheckExpectFields {
		return shapeErrorf("expected %d field(s), got %d", d.plan.CheckExpectFields, width)
	}
	bw := bufio.NewWriter(out)
	defer bw.Flush()
	plural := "s"
	if lines == 1 {
		plural = ""
	}
	fplural := "s"
	if width == 1 {
		fplural = ""
	}
	_, err := fmt.Fprintf(bw, "%d line%s, %d field%s\n", lines, plural, width, fplural)
	if err != nil {
		return ioErrorf(err, "writing output")
	}
	return nil
}

package groupagg

import (
	"bufio"
	"io"
	"sort"

	"github.com/VictoriaMetrics/vmdatamash/lib/bytesutil"
)

// CrosstabMatrix accumulates one OpInstance per (row, col) cell for
// "crosstab" mode. Row and column names are interned into
// maps the first time they are seen - cheap identity lookups instead of
// re-hashing the same strings on every record - and cells are stored in a
// row-major jagged slice grown on demand as new names appear.
type CrosstabMatrix struct {
	spec  *OpKindSpec
	field FieldRef

	rowIndex map[string]int
	rowNames []string
	colIndex map[string]int
	colNames []string
	cells    [][]*OpInstance
}

// NewCrosstabMatrix builds an empty matrix that will compute spec(field)
// for every (row, col) pair it sees.
func NewCrosstabMatrix(spec *OpKindSpec, field FieldRef) *CrosstabMatrix {
	return &CrosstabMatrix{
		spec:     spec,
		field:    field,
		rowIndex: make(map[string]int),
		colIndex: make(map[string]int),
	}
}

// Cell returns the accumulator for (row, col), interning both names and
// growing the backing storage the first time either is seen.
func (m *CrosstabMatrix) Cell(row, col string) *OpInstance {
	ri, ok := m.rowIndex[row]
	if !ok {
		ri = len(m.rowNames)
		m.rowIndex[row] = ri
		m.rowNames = append(m.rowNames, row)
		m.cells = append(m.cells, nil)
	}
	ci, ok := m.colIndex[col]
	if !ok {
		ci = len(m.colNames)
		m.colIndex[col] = ci
		m.colNames = append(m.colNames, col)
	}
	row2 := m.cells[ri]
	for len(row2) <= ci {
		row2 = append(row2, nil)
	}
	if row2[ci] == nil {
		row2[ci] = newOpInstance(m.spec, m.field)
	}
	m.cells[ri] = row2
	return m.cells[ri][ci]
}

// Write renders the matrix: a header row of sorted column names (with an
// empty top-left corner) followed by one row per sorted row name, filling
// any (row, col) pair that was never observed with opts.Filler.
func (m *CrosstabMatrix) Write(bw *bufio.Writer, opts *TextOptions) error {
	sortedRows := append([]string(nil), m.rowNames...)
	sort.Strings(sortedRows)
	sortedCols := append([]string(nil), m.colNames...)
	sort.Strings(sortedCols)

	header := append([]string{""}, sortedCols...)
	if err := writeDelimited(bw, header, opts.OutputDelim, opts.EndOfRecord); err != nil {
		return err
	}

	for _, row := range sortedRows {
		ri := m.rowIndex[row]
		cols := make([]string, 0, len(sortedCols)+1)
		cols = append(cols, row)
		for _, col := range sortedCols {
			ci := m.colIndex[col]
			var cell *OpInstance
			if ci < len(m.cells[ri]) {
				cell = m.cells[ri][ci]
			}
			if cell == nil {
				cols = append(cols, opts.Filler)
				continue
			}
			cols = append(cols, cell.Summarize(nil, opts))
		}
		if err := writeDelimited(bw, cols, opts.OutputDelim, opts.EndOfRecord); err != nil {
			return err
		}
	}
	return nil
}

// runCrosstab streams input once, routing each record's operation field
// into the matrix cell named by its two group-by columns, then renders the
// whole matrix at EOF (crosstab always buffers the full
// cell set, unlike the single-pass groupby driver, since row/column order
// is sorted-by-name rather than input order).
func (d *Driver) runCrosstab(in io.Reader, out io.Writer) error {
	if len(d.plan.GroupBy) != 2 {
		return planErrorf("crosstab requires exactly two group columns")
	}
	if len(d.plan.Ops) != 1 {
		return planErrorf("crosstab requires exactly one operation")
	}
	op := d.plan.Ops[0]
	matrix := NewCrosstabMatrix(op.Spec, op.Field)

	lr := NewLineReader(in, d.opts.EndOfRecord, d.opts.SkipComments)
	var rec Record
	for {
		line, lineNo, rerr := lr.Next()
		if rerr != nil && len(line) == 0 {
			if rerr == io.EOF {
				break
			}
			return ioErrorf(rerr, "reading input")
		}
		rec.Reset(line)
		if d.header == nil {
			d.header = NewColumnHeaderFromCount(rec.FieldCount(d.opts.InputDelim))
		}
		rowIdx, err := d.plan.GroupBy[0].Resolve(d.header)
		if err != nil {
			return err
		}
		colIdx, err := d.plan.GroupBy[1].Resolve(d.header)
		if err != nil {
			return err
		}
		fieldIdx, err := op.Field.Resolve(d.header)
		if err != nil {
			return err
		}
		rowRaw, err := d.fieldOrFiller(&rec, rowIdx, lineNo)
		if err != nil {
			return err
		}
		colRaw, err := d.fieldOrFiller(&rec, colIdx, lineNo)
		if err != nil {
			return err
		}
		fieldRaw, err := d.fieldOrFiller(&rec, fieldIdx, lineNo)
		if err != nil {
			return err
		}
		cell := matrix.Cell(bytesutil.ToUnsafeString(rowRaw), bytesutil.ToUnsafeString(colRaw))
		if err := cell.Collect(fieldRaw, d.rs, lineNo, fieldIdx, d.opts); err != nil {
			return err
		}
		if d.stats != nil {
			d.stats.IncRows()
		}
		if rerr == io.EOF {
			break
		}
	}

	bw := bufio.NewWriter(out)
	defer bw.Flush()
	return matrix.Write(bw, d.opts)
}

package groupagg

// OpKind tags one of the ~40 operation kinds the DSL can name. Dispatch is
// a tagged variant with a static per-kind descriptor (opKindSpecs below)
// rather than an inheritance tree.
type OpKind int

const (
	OpSum OpKind = iota
	OpMin
	OpMax
	OpAbsMin
	OpAbsMax
	OpRange
	OpCount
	OpMean
	OpFirst
	OpLast
	OpRand

	OpMedian
	OpQ1
	OpQ3
	OpIQR
	OpPerc
	OpPStdev
	OpSStdev
	OpPVar
	OpSVar
	OpMad
	OpMadRaw
	OpMode
	OpAntimode
	OpPSkew
	OpSSkew
	OpPKurt
	OpSKurt
	OpJarque
	OpDpo
	OpTrimMean

	OpUnique
	OpCollapse
	OpCountUnique

	OpPCov
	OpSCov
	OpPPearson
	OpSPearson

	OpBase64
	OpDebase64
	OpMd5
	OpSha1
	OpSha256
	OpSha512
	OpBin
	OpStrBin
	OpRound
	OpFloor
	OpCeil
	OpTrunc
	OpFrac
	OpDirname
	OpBasename
	OpExtname
	OpBarename
	OpGetNum
	OpCut
)

// opCategory classifies an OpKind along two axes: scalar-vs-vector
// accumulation, numeric-vs-text values. Paired and per-line-transform
// kinds get their own bits since neither axis alone describes them.
type opCategory int

const (
	catScalarNumeric opCategory = 1 << iota
	catScalarText
	catVectorNumeric
	catVectorText
	catPairedNumeric
	catTransform
)

// paramKind describes what, if anything, an op's single optional DSL
// parameter means.
type paramKind int

const (
	paramNone paramKind = iota
	paramBin        // default 100, float
	paramStrBin     // default 10, positive integer
	paramPerc       // 1..100, default 95
	paramTrimMean   // 0..0.5, default 0
	paramGetNum     // one of h o i n d p, default p
)

// OpKindSpec is the static, compile-time descriptor for one OpKind.
type OpKindSpec struct {
	Name      string
	Kind      OpKind
	Category  opCategory
	AutoFirst bool // min/max/absmin/absmax: accumulator seeds from first value
	Param     paramKind
	// ImpliesPerLine marks kinds that operate on one record at a time and
	// imply per-line processing mode when used without an explicit mode
	// keyword (in per-line mode, every record is its own
	// group).
	ImpliesPerLine bool
	// Pairable marks kinds that accept an "X:Y" field-spec pair.
	Pairable bool
}

var opKindSpecs = []OpKindSpec{
	{Name: "sum", Kind: OpSum, Category: catScalarNumeric},
	{Name: "min", Kind: OpMin, Category: catScalarNumeric, AutoFirst: true},
	{Name: "max", Kind: OpMax, Category: catScalarNumeric, AutoFirst: true},
	{Name: "absmin", Kind: OpAbsMin, Category: catScalarNumeric, AutoFirst: true},
	{Name: "absmax", Kind: OpAbsMax, Category: catScalarNumeric, AutoFirst: true},
	{Name: "range", Kind: OpRange, Category: catScalarNumeric, AutoFirst: true},
	{Name: "count", Kind: OpCount, Category: catScalarNumeric | catScalarText},
	{Name: "mean", Kind: OpMean, Category: catScalarNumeric},
	{Name: "first", Kind: OpFirst, Category: catScalarNumeric | catScalarText},
	{Name: "last", Kind: OpLast, Category: catScalarNumeric | catScalarText},
	{Name: "rand", Kind: OpRand, Category: catScalarNumeric | catScalarText},

	{Name: "median", Kind: OpMedian, Category: catVectorNumeric},
	{Name: "q1", Kind: OpQ1, Category: catVectorNumeric},
	{Name: "q3", Kind: OpQ3, Category: catVectorNumeric},
	{Name: "iqr", Kind: OpIQR, Category: catVectorNumeric},
	{Name: "perc", Kind: OpPerc, Category: catVectorNumeric, Param: paramPerc},
	{Name: "pstdev", Kind: OpPStdev, Category: catVectorNumeric},
	{Name: "sstdev", Kind: OpSStdev, Category: catVectorNumeric},
	{Name: "pvar", Kind: OpPVar, Category: catVectorNumeric},
	{Name: "svar", Kind: OpSVar, Category: catVectorNumeric},
	{Name: "mad", Kind: OpMad, Category: catVectorNumeric},
	{Name: "madraw", Kind: OpMadRaw, Category: catVectorNumeric},
	{Name: "mode", Kind: OpMode, Category: catVectorNumeric},
	{Name: "antimode", Kind: OpAntimode, Category: catVectorNumeric},
	{Name: "pskew", Kind: OpPSkew, Category: catVectorNumeric},
	{Name: "sskew", Kind: OpSSkew, Category: catVectorNumeric},
	{Name: "pkurt", Kind: OpPKurt, Category: catVectorNumeric},
	{Name: "skurt", Kind: OpSKurt, Category: catVectorNumeric},
	{Name: "jarque", Kind: OpJarque, Category: catVectorNumeric},
	{Name: "dpo", Kind: OpDpo, Category: catVectorNumeric},
	{Name: "trimmean", Kind: OpTrimMean, Category: catVectorNumeric, Param: paramTrimMean},

	{Name: "unique", Kind: OpUnique, Category: catVectorText},
	{Name: "collapse", Kind: OpCollapse, Category: catVectorText},
	{Name: "countunique", Kind: OpCountUnique, Category: catVectorText},

	{Name: "pcov", Kind: OpPCov, Category: catPairedNumeric, Pairable: true},
	{Name: "scov", Kind: OpSCov, Category: catPairedNumeric, Pairable: true},
	{Name: "ppearson", Kind: OpPPearson, Category: catPairedNumeric, Pairable: true},
	{Name: "spearson", Kind: OpSPearson, Category: catPairedNumeric, Pairable: true},

	{Name: "base64", Kind: OpBase64, Category: catTransform, ImpliesPerLine: true},
	{Name: "debase64", Kind: OpDebase64, Category: catTransform, ImpliesPerLine: true},
	{Name: "md5", Kind: OpMd5, Category: catTransform, ImpliesPerLine: true},
	{Name: "sha1", Kind: OpSha1, Category: catTransform, ImpliesPerLine: true},
	{Name: "sha256", Kind: OpSha256, Category: catTransform, ImpliesPerLine: true},
	{Name: "sha512", Kind: OpSha512, Category: catTransform, ImpliesPerLine: true},
	{Name: "bin", Kind: OpBin, Category: catTransform, Param: paramBin, ImpliesPerLine: true},
	{Name: "strbin", Kind: OpStrBin, Category: catTransform, Param: paramStrBin, ImpliesPerLine: true},
	{Name: "round", Kind: OpRound, Category: catTransform, ImpliesPerLine: true},
	{Name: "floor", Kind: OpFloor, Category: catTransform, ImpliesPerLine: true},
	{Name: "ceil", Kind: OpCeil, Category: catTransform, ImpliesPerLine: true},
	{Name: "trunc", Kind: OpTrunc, Category: catTransform, ImpliesPerLine: true},
	{Name: "frac", Kind: OpFrac, Category: catTransform, ImpliesPerLine: true},
	{Name: "dirname", Kind: OpDirname, Category: catTransform, ImpliesPerLine: true},
	{Name: "basename", Kind: OpBasename, Category: catTransform, ImpliesPerLine: true},
	{Name: "extname", Kind: OpExtname, Category: catTransform, ImpliesPerLine: true},
	{Name: "barename", Kind: OpBarename, Category: catTransform, ImpliesPerLine: true},
	{Name: "getnum", Kind: OpGetNum, Category: catTransform, Param: paramGetNum, ImpliesPerLine: true},
	{Name: "cut", Kind: OpCut, Category: catTransform, ImpliesPerLine: true},
}

var opKindSpecByName map[string]*OpKindSpec

func init() {
	opKindSpecByName = make(map[string]*OpKindSpec, len(opKindSpecs))
	for i := range opKindSpecs {
		opKindSpecByName[opKindSpecs[i].Name] = &opKindSpecs[i]
	}
}

func lookupOpKindSpec(name string) (*OpKindSpec, bool) {
	s, ok := opKindSpecByName[name]
	return s, ok
}

// isNumeric reports whether values collected for this kind are parsed as
// numbers (as opposed to raw text).
func (s *OpKindSpec) isNumeric() bool {
	return s.Category&(catScalarText|catVectorText) == 0
}

// isVector reports whether this kind buffers its whole group before
// summarizing (order-statistics / set kinds), vs. accumulating online.
func (s *OpKindSpec) isVector() bool {
	return s.Category&(catVectorNumeric|catVectorText|catPairedNumeric) != 0
}

// OpParam is the (at most one) parameter an op instance was given: a
// percentile, bucket size, trim fraction, or getnum type letter.
type OpParam struct {
	set   bool
	f     float64
	isInt bool
	i     int
	str   string
}

// OpInstance is one concrete pairing of an operation kind with a field (or
// field pair) and its parameters.
type OpInstance struct {
	Spec  *OpKindSpec
	Field FieldRef // slave field for paired ops, sole field otherwise
	Param OpParam

	// IsSlave/IsMaster/SlaveIdx implement the paired-op coupling: the
	// master holds a plain index into the plan's Ops slice rather than
	// an owning reference to its slave.
	IsSlave  bool
	IsMaster bool
	SlaveIdx int // index into the owning ProgramPlan.Ops, valid when IsMaster

	state opState
}

// opState is the union accumulator state for all ~40 kinds; only the
// fields relevant to an instance's Spec.Category are ever populated.
type opState struct {
	count uint64

	// scalar numeric
	sum        float64
	min, max   float64
	haveExtrem bool
	first      float64
	last       float64
	haveFirst  bool

	// scalar text
	firstText string
	lastText  string

	// reservoir sampling (rand)
	randNumeric float64
	randText    string

	// vector numeric / paired numeric (master's own field values live here
	// too; its sibling slave's values live in the slave OpInstance's own
	// state.values, reached via SlaveIdx at summarize time)
	values []float64

	// vector text
	textOrder []string
	seen      map[string]struct{}
	seenOrder []string
}

func newOpInstance(spec *OpKindSpec, field FieldRef) *OpInstance {
	return &OpInstance{Spec: spec, Field: field}
}

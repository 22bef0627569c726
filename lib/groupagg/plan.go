package groupagg

// ProcessingMode selects which driver handles the parsed plan (the
// grammar's "mode" production, plus the implied per-line mode an op_list
// of pure transform kinds selects without any mode keyword).
type ProcessingMode int

const (
	ModeGroupBy ProcessingMode = iota
	ModeCrosstab
	ModeTranspose
	ModeReverse
	ModeNoop
	ModeRmdup
	ModeCheck
	ModePerLine
)

// ProgramPlan is the parsed, normalized DSL: processing mode, group-by
// column list, and ordered operations.
type ProgramPlan struct {
	Mode    ProcessingMode
	GroupBy []FieldRef
	Ops     []*OpInstance

	// CheckExpectLines/CheckExpectFields are -1 when unconstrained.
	CheckExpectLines  int
	CheckExpectFields int
}

package groupagg

import "testing"

func TestParseProgramBareOpList(t *testing.T) {
	plan, err := ParseProgram([]string{"sum", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModeGroupBy {
		t.Fatalf("mode = %v, want ModeGroupBy", plan.Mode)
	}
	if len(plan.Ops) != 1 || plan.Ops[0].Spec.Kind != OpSum || plan.Ops[0].Field.Number != 1 {
		t.Fatalf("ops = %+v", plan.Ops)
	}
}

func TestParseProgramGroupBy(t *testing.T) {
	plan, err := ParseProgram([]string{"groupby", "1,2", "sum", "3", "mean", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModeGroupBy {
		t.Fatalf("mode = %v", plan.Mode)
	}
	if len(plan.GroupBy) != 2 || plan.GroupBy[0].Number != 1 || plan.GroupBy[1].Number != 2 {
		t.Fatalf("groupby = %+v", plan.GroupBy)
	}
	if len(plan.Ops) != 2 {
		t.Fatalf("ops = %+v", plan.Ops)
	}
}

func TestParseProgramFieldRange(t *testing.T) {
	plan, err := ParseProgram([]string{"sum", "1-3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Ops) != 3 {
		t.Fatalf("expected 3 expanded ops, got %d", len(plan.Ops))
	}
	for i, op := range plan.Ops {
		if op.Field.Number != i+1 {
			t.Errorf("op[%d].Field.Number = %d, want %d", i, op.Field.Number, i+1)
		}
	}
}

func TestParseProgramInvertedRange(t *testing.T) {
	_, err := ParseProgram([]string{"sum", "3-1"})
	if err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestParseProgramPairedOp(t *testing.T) {
	plan, err := ParseProgram([]string{"pcov", "1:2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Ops) != 2 {
		t.Fatalf("expected slave+master, got %d ops", len(plan.Ops))
	}
	slave, master := plan.Ops[0], plan.Ops[1]
	if !slave.IsSlave || !master.IsMaster {
		t.Fatalf("slave/master flags wrong: %+v %+v", slave, master)
	}
	if master.SlaveIdx != 0 {
		t.Fatalf("master.SlaveIdx = %d, want 0", master.SlaveIdx)
	}
	if slave.Field.Number != 1 || master.Field.Number != 2 {
		t.Fatalf("fields wrong: %+v %+v", slave.Field, master.Field)
	}
}

func TestParseProgramPairRequiresPairable(t *testing.T) {
	_, err := ParseProgram([]string{"sum", "1:2"})
	if err == nil {
		t.Fatalf("expected error: sum is not pairable")
	}
}

func TestParseProgramParam(t *testing.T) {
	plan, err := ParseProgram([]string{"perc:90", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.Ops[0].Param.floatOr(-1); got != 90 {
		t.Fatalf("param = %v, want 90", got)
	}
}

func TestParseProgramParamRejectsUnknown(t *testing.T) {
	_, err := ParseProgram([]string{"sum:5", "1"})
	if err == nil {
		t.Fatalf("expected error: sum takes no parameter")
	}
}

func TestParseProgramCrosstab(t *testing.T) {
	plan, err := ParseProgram([]string{"crosstab", "1,2", "sum", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModeCrosstab {
		t.Fatalf("mode = %v", plan.Mode)
	}
	if len(plan.GroupBy) != 2 || len(plan.Ops) != 1 {
		t.Fatalf("crosstab plan malformed: %+v", plan)
	}
}

func TestParseProgramCrosstabRequiresTwoCols(t *testing.T) {
	_, err := ParseProgram([]string{"crosstab", "1", "sum", "2"})
	if err == nil {
		t.Fatalf("expected error: crosstab needs exactly two columns")
	}
}

func TestParseProgramModes(t *testing.T) {
	for _, tc := range []struct {
		args []string
		mode ProcessingMode
	}{
		{[]string{"transpose"}, ModeTranspose},
		{[]string{"reverse"}, ModeReverse},
		{[]string{"noop"}, ModeNoop},
	} {
		plan, err := ParseProgram(tc.args)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tc.args, err)
		}
		if plan.Mode != tc.mode {
			t.Errorf("%v: mode = %v, want %v", tc.args, plan.Mode, tc.mode)
		}
	}
}

func TestParseProgramRmdup(t *testing.T) {
	plan, err := ParseProgram([]string{"rmdup", "1,2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModeRmdup || len(plan.GroupBy) != 2 {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestParseProgramCheck(t *testing.T) {
	plan, err := ParseProgram([]string{"check", "5", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModeCheck || plan.CheckExpectLines != 5 || plan.CheckExpectFields != 3 {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestParseProgramCheckBare(t *testing.T) {
	plan, err := ParseProgram([]string{"check"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.CheckExpectLines != -1 || plan.CheckExpectFields != -1 {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestParseProgramPerLineTransforms(t *testing.T) {
	plan, err := ParseProgram([]string{"md5", "1", "base64", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Mode != ModePerLine {
		t.Fatalf("mode = %v, want ModePerLine", plan.Mode)
	}
	if len(plan.Ops) != 2 {
		t.Fatalf("ops = %+v", plan.Ops)
	}
}

func TestParseProgramCannotMixTransformWithGrouped(t *testing.T) {
	_, err := ParseProgram([]string{"sum", "1", "md5", "2"})
	if err == nil {
		t.Fatalf("expected error mixing scalar op with transform")
	}
}

func TestParseProgramNamedFields(t *testing.T) {
	plan, err := ParseProgram([]string{"groupby", "name", "sum", "amount"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.GroupBy[0].IsNamed() || plan.GroupBy[0].Name != "name" {
		t.Fatalf("groupby = %+v", plan.GroupBy)
	}
	if !plan.Ops[0].Field.IsNamed() || plan.Ops[0].Field.Name != "amount" {
		t.Fatalf("op field = %+v", plan.Ops[0].Field)
	}
}

func TestParseProgramUnknownOp(t *testing.T) {
	_, err := ParseProgram([]string{"bogus", "1"})
	if err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestParseProgramEmpty(t *testing.T) {
	_, err := ParseProgram(nil)
	if err == nil {
		t.Fatalf("expected error for empty program")
	}
}

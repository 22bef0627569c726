package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/VictoriaMetrics/vmdatamash/lib/groupagg"
)

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("a", "b"); got != "a" {
		t.Fatalf("firstNonEmpty(a,b) = %q, want a", got)
	}
	if got := firstNonEmpty("", "b"); got != "b" {
		t.Fatalf("firstNonEmpty(\"\",b) = %q, want b", got)
	}
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&groupagg.ParseError{Msg: "x"}, 1},
		{&groupagg.PlanError{Msg: "x"}, 1},
		{&groupagg.NumericError{Line: 1, Field: 1, Value: "x"}, 2},
		{&groupagg.ShapeError{Msg: "x"}, 3},
		{&groupagg.IOError{Msg: "x", Err: errors.New("boom")}, 4},
	}
	for _, c := range cases {
		if got := exitCodeFor(c.err); got != c.want {
			t.Errorf("exitCodeFor(%T) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestPlanUsesRand(t *testing.T) {
	plan, err := groupagg.ParseProgram([]string{"rand", "1"})
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if !planUsesRand(plan) {
		t.Fatalf("expected planUsesRand to report true for a rand op")
	}

	plan2, err := groupagg.ParseProgram([]string{"sum", "1"})
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if planUsesRand(plan2) {
		t.Fatalf("expected planUsesRand to report false without a rand op")
	}
}

// TestEndToEndGroupBySum exercises the same groupagg.Driver wiring main's run
// function uses, skipping CLI flag parsing (scenario 1: basic
// grouped sum).
func TestEndToEndGroupBySum(t *testing.T) {
	plan, err := groupagg.ParseProgram([]string{"groupby", "1", "sum", "2"})
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	opts := groupagg.DefaultTextOptions()
	opts.InputDelim = groupagg.FieldDelim{Char: '\t'}
	d := groupagg.NewDriver(plan, opts, nil, nil)
	var out strings.Builder
	if err := d.Run(strings.NewReader("a\t1\na\t2\nb\t5\n"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "a\t3\nb\t5\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

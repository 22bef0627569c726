package metrics

import (
	"strings"
	"testing"
)

func TestRunStatsCounters(t *testing.T) {
	rs := NewRunStats()
	rs.IncRows()
	rs.IncRows()
	rs.IncGroupsClosed()
	rs.IncNumericErrors()
	rs.IncIOErrors()

	var buf strings.Builder
	rs.set.WritePrometheus(&buf)
	out := buf.String()

	if !strings.Contains(out, "vmdatamash_rows_total 2") {
		t.Fatalf("expected rows_total 2 in output, got %s", out)
	}
	if !strings.Contains(out, "vmdatamash_groups_closed_total 1") {
		t.Fatalf("expected groups_closed_total 1 in output, got %s", out)
	}
}

func TestServeAddrStartsAndStops(t *testing.T) {
	rs := NewRunStats()
	shutdown, err := rs.ServeAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ServeAddr: %v", err)
	}
	shutdown()
}

func TestServeAddrRejectsBadAddress(t *testing.T) {
	rs := NewRunStats()
	if _, err := rs.ServeAddr("not-an-address"); err == nil {
		t.Fatalf("expected an error for an unparseable address")
	}
}

// Package metrics exposes the run counters through
// github.com/VictoriaMetrics/metrics, the same pull-based metrics library
// every other VictoriaMetrics component uses.
package metrics

import (
	"fmt"
	"net"
	"net/http"

	vmmetrics "github.com/VictoriaMetrics/metrics"
)

// RunStats holds the counters for a single vmdatamash invocation.
type RunStats struct {
	set *vmmetrics.Set

	rowsTotal         *vmmetrics.Counter
	groupsClosedTotal *vmmetrics.Counter
	parseErrorsTotal  *vmmetrics.Counter
	numericErrorsTotal *vmmetrics.Counter
	ioErrorsTotal     *vmmetrics.Counter
}

// NewRunStats creates a fresh, independent metric set so that concurrent
// vmdatamash test runs never collide on the global default set.
func NewRunStats() *RunStats {
	set := vmmetrics.NewSet()
	rs := &RunStats{
		set:                set,
		rowsTotal:          set.NewCounter("vmdatamash_rows_total"),
		groupsClosedTotal:  set.NewCounter("vmdatamash_groups_closed_total"),
		parseErrorsTotal:   set.NewCounter(`vmdatamash_errors_total{kind="parse"}`),
		numericErrorsTotal: set.NewCounter(`vmdatamash_errors_total{kind="numeric"}`),
		ioErrorsTotal:      set.NewCounter(`vmdatamash_errors_total{kind="io"}`),
	}
	return rs
}

// IncRows increments the processed-row counter.
func (rs *RunStats) IncRows() { rs.rowsTotal.Inc() }

// IncGroupsClosed increments the closed-group counter.
func (rs *RunStats) IncGroupsClosed() { rs.groupsClosedTotal.Inc() }

// IncParseErrors increments the parse-error counter.
func (rs *RunStats) IncParseErrors() { rs.parseErrorsTotal.Inc() }

// IncNumericErrors increments the numeric-error counter. The driver calls it
// for an unparseable value that fails the run; values skipped under --narm
// are not counted.
func (rs *RunStats) IncNumericErrors() { rs.numericErrorsTotal.Inc() }

// IncIOErrors increments the I/O-error counter.
func (rs *RunStats) IncIOErrors() { rs.ioErrorsTotal.Inc() }

// ServeAddr starts an HTTP server exposing this RunStats' set at /metrics
// and returns a shutdown func. It never blocks.
func (rs *RunStats) ServeAddr(addr string) (shutdown func(), err error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		rs.set.WritePrometheus(w)
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on %q: %w", addr, err)
	}
	go func() {
		_ = srv.Serve(ln)
	}()
	return func() { _ = srv.Close() }, nil
}

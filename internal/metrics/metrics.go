// Package metrics provides process-level counters for daemon, explorer and
// prune activity. Counters are atomic and dumped to the debug log at exit.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Daemon control interface
	daemonCallsTotal   atomic.Int64
	daemonErrorsTotal  atomic.Int64
	daemonLatencyNanos atomic.Int64

	// Block explorer
	explorerCallsTotal  atomic.Int64
	explorerErrorsTotal atomic.Int64

	// Dust pruning
	prunesOK     atomic.Int64
	prunesFailed atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordDaemonCall records a daemon call with its duration and outcome.
func (m *Metrics) RecordDaemonCall(duration time.Duration, err error) {
	m.daemonCallsTotal.Add(1)
	m.daemonLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.daemonErrorsTotal.Add(1)
	}
}

// RecordExplorerCall records an explorer request.
func (m *Metrics) RecordExplorerCall(err error) {
	m.explorerCallsTotal.Add(1)
	if err != nil {
		m.explorerErrorsTotal.Add(1)
	}
}

// RecordPrune records the outcome of one prune.
func (m *Metrics) RecordPrune(err error) {
	if err != nil {
		m.prunesFailed.Add(1)
		return
	}
	m.prunesOK.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	DaemonCallsTotal    int64
	DaemonErrorsTotal   int64
	DaemonLatencyNanos  int64
	ExplorerCallsTotal  int64
	ExplorerErrorsTotal int64
	PrunesOK            int64
	PrunesFailed        int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		DaemonCallsTotal:    m.daemonCallsTotal.Load(),
		DaemonErrorsTotal:   m.daemonErrorsTotal.Load(),
		DaemonLatencyNanos:  m.daemonLatencyNanos.Load(),
		ExplorerCallsTotal:  m.explorerCallsTotal.Load(),
		ExplorerErrorsTotal: m.explorerErrorsTotal.Load(),
		PrunesOK:            m.prunesOK.Load(),
		PrunesFailed:        m.prunesFailed.Load(),
	}
}

// DaemonLatencyAvg returns the mean daemon call duration, or 0 without calls.
func (s Snapshot) DaemonLatencyAvg() time.Duration {
	if s.DaemonCallsTotal == 0 {
		return 0
	}
	return time.Duration(s.DaemonLatencyNanos / s.DaemonCallsTotal)
}

// String renders the snapshot as a single log line.
func (s Snapshot) String() string {
	return fmt.Sprintf(
		"daemon_calls=%d daemon_errors=%d daemon_avg=%s explorer_calls=%d explorer_errors=%d prunes_ok=%d prunes_failed=%d",
		s.DaemonCallsTotal, s.DaemonErrorsTotal, s.DaemonLatencyAvg(),
		s.ExplorerCallsTotal, s.ExplorerErrorsTotal,
		s.PrunesOK, s.PrunesFailed,
	)
}

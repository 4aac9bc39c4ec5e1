package driven

// ProgressSink receives progress events during long-running work such
// as directory scans or extraction runs. Implementations must be cheap:
// sinks are called from hot loops.
//
// A nil-safe no-op implementation lives in the services package; ports
// accept a nil sink to mean "no progress reporting".
type ProgressSink interface {
	// Start announces a new phase and the expected total, or -1 when
	// the total is unknown.
	Start(phase string, total int)

	// Advance reports n additional completed items.
	Advance(n int)

	// Done marks the current phase complete.
	Done()
}

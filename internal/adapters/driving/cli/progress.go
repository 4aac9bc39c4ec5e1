package cli

import (
	"fmt"
	"os"

	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
)

// stderrProgress writes progress lines to stderr so they never mix
// with record output on stdout.
type stderrProgress struct {
	phase string
	total int
	done  int
}

var _ driven.ProgressSink = (*stderrProgress)(nil)

func newStderrProgress() *stderrProgress {
	return &stderrProgress{}
}

func (p *stderrProgress) Start(phase string, total int) {
	p.phase = phase
	p.total = total
	p.done = 0
	if total >= 0 {
		fmt.Fprintf(os.Stderr, "%s: 0/%d\n", phase, total)
	} else {
		fmt.Fprintf(os.Stderr, "%s...\n", phase)
	}
}

func (p *stderrProgress) Advance(n int) {
	p.done += n
	if p.total >= 0 {
		fmt.Fprintf(os.Stderr, "\r%s: %d/%d", p.phase, p.done, p.total)
	} else {
		fmt.Fprintf(os.Stderr, "\r%s: %d", p.phase, p.done)
	}
}

func (p *stderrProgress) Done() {
	fmt.Fprintln(os.Stderr)
}

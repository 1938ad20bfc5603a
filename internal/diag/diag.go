// Package diag collects run diagnostics. The replay engine never aborts on a
// malformed file or statement; everything recoverable is reported here instead.
package diag

import (
	"fmt"
	"io"
	"sync"
)

// Reporter writes diagnostic messages to a single destination and counts
// warnings so callers can summarize at the end of a run.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	verbose  bool
	warnings int
}

// New creates a Reporter writing to out. Info messages are suppressed unless
// verbose is set; warnings are always written.
func New(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// Infof writes a progress message when verbose mode is enabled.
func (r *Reporter) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}

	fmt.Fprintf(r.out, format+"\n", args...)
}

// Warnf writes a warning message and increments the warning count.
func (r *Reporter) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warnings++
	fmt.Fprintf(r.out, "Warning: "+format+"\n", args...)
}

// Warnings returns the number of warnings emitted so far.
func (r *Reporter) Warnings() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.warnings
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// progress renders a throttled single status line in place. It tracks
// the last rendered width so a shorter line blanks the leftovers of the
// previous one. In verbose mode every line is printed in full instead.
type progress struct {
	w       io.Writer
	verbose bool
	lastLen int
	every   rate.Sometimes
}

func newProgress(w io.Writer, verbose bool) *progress {
	return &progress{w: w, verbose: verbose, every: rate.Sometimes{First: 1, Interval: 50 * time.Millisecond}}
}

func (p *progress) Linef(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(p.w, format+"\n", args...)
		return
	}
	p.every.Do(func() {
		line := fmt.Sprintf(format, args...)
		fmt.Fprintf(p.w, "\r%s", line)
		if pad := p.lastLen - len([]rune(line)); pad > 0 {
			fmt.Fprint(p.w, strings.Repeat(" ", pad))
		}
		p.lastLen = len([]rune(line))
	})
}

// Done finishes the in-place line, if any.
func (p *progress) Done() {
	if p.verbose || p.lastLen == 0 {
		return
	}
	fmt.Fprintln(p.w)
	p.lastLen = 0
}

// Package irq delivers asynchronous hardware events to a handler and shares
// one display between that handler and the startup path.
package irq

import (
	"context"
	"sync/atomic"
)

// Line is one interrupt line. A pended event that has not been serviced yet
// absorbs further Pend calls, like a hardware pending bit.
type Line struct {
	Name    string
	pending chan struct{}
	served  atomic.Uint64
}

func NewLine(name string) *Line {
	return &Line{Name: name, pending: make(chan struct{}, 1)}
}

// Pend raises the line. It never blocks and reports false if the line was
// already pending.
func (l *Line) Pend() bool {
	select {
	case l.pending <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve runs isr once per serviced event until ctx is done. The handler runs
// on the calling goroutine, so callers start Serve with go.
func (l *Line) Serve(ctx context.Context, isr func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.pending:
			isr()
			l.served.Add(1)
		}
	}
}

// Served counts completed handler runs.
func (l *Line) Served() uint64 { return l.served.Load() }

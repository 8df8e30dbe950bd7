// Package transporttest provides a bigtypes.Transport that records traffic
// and can be told to fail.
package transporttest

import (
	"errors"
	"sync"
)

var ErrInjected = errors.New("transporttest: injected failure")

// Op is one recorded write. Data is nil for a command.
type Op struct {
	Cmd   byte
	Data  []byte
	IsCmd bool
}

// Recorder records every write. Set FailCmd to make writes of that command
// byte fail, or FailAfter to fail every write past the first N.
type Recorder struct {
	mu  sync.Mutex
	Ops []Op

	FailCmd   map[byte]bool
	FailData  bool
	FailAfter int // 0 disables
	// Hook runs before every write, outside the lock.
	Hook func()
}

func (r *Recorder) WriteCmd(cmd byte) error {
	if r.Hook != nil {
		r.Hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing() || r.FailCmd[cmd] {
		return ErrInjected
	}
	r.Ops = append(r.Ops, Op{Cmd: cmd, IsCmd: true})
	return nil
}

func (r *Recorder) WriteData(p []byte) error {
	if r.Hook != nil {
		r.Hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing() || r.FailData {
		return ErrInjected
	}
	r.Ops = append(r.Ops, Op{Data: append([]byte(nil), p...)})
	return nil
}

func (r *Recorder) failing() bool {
	return r.FailAfter > 0 && len(r.Ops) >= r.FailAfter
}

func (r *Recorder) Snapshot() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.Ops...)
}

// Commands returns only the command bytes, in order.
func (r *Recorder) Commands() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []byte
	for _, op := range r.Ops {
		if op.IsCmd {
			out = append(out, op.Cmd)
		}
	}
	return out
}

// LastFrame returns the most recent data write, or nil.
func (r *Recorder) LastFrame() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Ops) - 1; i >= 0; i-- {
		if !r.Ops[i].IsCmd {
			return r.Ops[i].Data
		}
	}
	return nil
}

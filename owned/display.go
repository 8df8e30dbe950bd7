// Package owned is the display driver that carries its frame buffer inside
// the Display value.
package owned

import (
	bigtypes "github.com/coreman2200/big-types"
)

type Display struct {
	link   *bigtypes.Link
	buffer [bigtypes.BufferSize]byte
	closed bool
}

// New takes ownership of iface and initializes the panel. If the init command
// fails, iface is spent and no Display is returned.
func New(iface *bigtypes.Interface) (*Display, error) {
	link, err := iface.Claim()
	if err != nil {
		return nil, err
	}
	if err := link.WriteCmd(bigtypes.InitCommand); err != nil {
		return nil, err
	}
	return &Display{link: link}, nil
}

// Draw renders obj into the frame and pushes the frame out.
func (d *Display) Draw(obj bigtypes.Object) error {
	if d.closed {
		return bigtypes.ErrClosed
	}
	bigtypes.Render(&d.buffer, obj)
	return bigtypes.Flush(d.link, &d.buffer)
}

// Close puts the panel to sleep. The Display is unusable afterwards even if
// the sleep command fails.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.link.WriteCmd(bigtypes.SleepCommand)
}

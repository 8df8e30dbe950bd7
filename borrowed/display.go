// Package borrowed is the display driver that draws into storage it does not
// own. The caller keeps the storage, usually a package level FrameBuffer,
// and the Display holds the only lease on it until Close.
package borrowed

import (
	bigtypes "github.com/coreman2200/big-types"
)

type Display struct {
	link   *bigtypes.Link
	buffer *bigtypes.Lease
	closed bool
}

// New borrows fb, takes ownership of iface and initializes the panel.
//
// If fb is already lent out, New returns ErrBufferBorrowed and iface is left
// untouched. If the init command fails, the lease is given back and iface is
// spent.
func New(iface *bigtypes.Interface, fb *bigtypes.FrameBuffer) (*Display, error) {
	lease, err := fb.Borrow()
	if err != nil {
		return nil, err
	}
	link, err := iface.Claim()
	if err != nil {
		lease.Release()
		return nil, err
	}
	if err := link.WriteCmd(bigtypes.InitCommand); err != nil {
		lease.Release()
		return nil, err
	}
	return &Display{link: link, buffer: lease}, nil
}

// Draw renders obj into the borrowed frame and pushes the frame out.
func (d *Display) Draw(obj bigtypes.Object) error {
	if d.closed {
		return bigtypes.ErrClosed
	}
	buf := d.buffer.Bytes()
	bigtypes.Render(buf, obj)
	return bigtypes.Flush(d.link, buf)
}

// Close puts the panel to sleep and ends the borrow.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.buffer.Release()
	return d.link.WriteCmd(bigtypes.SleepCommand)
}

// Package bigtypes holds what the owned and borrowed display drivers share:
// the transport handle, the draw payload and the frame format.
package bigtypes

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	Width  = 128
	Height = 64
	// BufferSize is one bit per pixel, packed in 8-row pages.
	BufferSize = Width * Height / 8
)

const (
	InitCommand  byte = 0x00
	DrawCommand  byte = 0x01
	SleepCommand byte = 0x02
)

var (
	// ErrIface is returned for any failure of the underlying transport.
	ErrIface = errors.New("interface error")

	ErrInterfaceInUse = errors.New("interface already claimed by a display")
	ErrBufferBorrowed = errors.New("frame buffer already borrowed")
	ErrClosed         = errors.New("display closed")
)

// Transport sends bytes to the display controller. Implementations live in
// the transport package.
type Transport interface {
	WriteCmd(cmd byte) error
	WriteData(p []byte) error
}

// Interface is the hardware handle a Display takes ownership of. It has no
// write methods of its own: the one Link handed out by Claim is the only way
// to reach the transport. Once claimed it stays claimed, even if the display
// never finished initializing.
type Interface struct {
	t       Transport
	claimed atomic.Bool
}

func NewInterface(t Transport) *Interface {
	return &Interface{t: t}
}

// Claim transfers ownership to the caller. It fails for every caller after
// the first.
func (i *Interface) Claim() (*Link, error) {
	if i == nil || i.t == nil {
		return nil, fmt.Errorf("nil transport: %w", ErrIface)
	}
	if !i.claimed.CompareAndSwap(false, true) {
		return nil, ErrInterfaceInUse
	}
	return &Link{t: i.t}, nil
}

func (i *Interface) Claimed() bool { return i.claimed.Load() }

// Link is the owner's side of a claimed Interface. Transport errors come back
// wrapped in ErrIface.
type Link struct {
	t Transport
}

func (l *Link) WriteCmd(cmd byte) error {
	if err := l.t.WriteCmd(cmd); err != nil {
		return fmt.Errorf("write cmd 0x%02x: %w: %w", cmd, ErrIface, err)
	}
	return nil
}

func (l *Link) WriteData(p []byte) error {
	if err := l.t.WriteData(p); err != nil {
		return fmt.Errorf("write %d data bytes: %w: %w", len(p), ErrIface, err)
	}
	return nil
}

// Object is a single draw request: fill Rect with Color. The zero Object
// changes no pixels but still pushes a frame.
type Object struct {
	Rect  image.Rectangle
	Color image1bit.Bit
}

func Fill(r image.Rectangle) Object  { return Object{Rect: r, Color: image1bit.On} }
func Clear(r image.Rectangle) Object { return Object{Rect: r, Color: image1bit.Off} }

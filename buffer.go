package bigtypes

import "sync/atomic"

// FrameBuffer is storage that lives outside any display, normally a package
// level var. At most one Lease on it exists at a time.
type FrameBuffer struct {
	borrowed atomic.Bool
	data     [BufferSize]byte
}

// Lease is exclusive access to a FrameBuffer. It cannot be copied into a
// second live lease; Borrow is the only way to get one.
type Lease struct {
	fb       *FrameBuffer
	released atomic.Bool
}

// Borrow hands out the lease, or ErrBufferBorrowed if one is live.
func (f *FrameBuffer) Borrow() (*Lease, error) {
	if !f.borrowed.CompareAndSwap(false, true) {
		return nil, ErrBufferBorrowed
	}
	return &Lease{fb: f}, nil
}

func (f *FrameBuffer) Borrowed() bool { return f.borrowed.Load() }

// Inspect runs fn with the storage when nobody holds a lease on it.
func (f *FrameBuffer) Inspect(fn func(buf *[BufferSize]byte)) error {
	l, err := f.Borrow()
	if err != nil {
		return err
	}
	defer l.Release()
	fn(l.Bytes())
	return nil
}

// Bytes panics once the lease has been released.
func (l *Lease) Bytes() *[BufferSize]byte {
	if l.released.Load() {
		panic("bigtypes: frame buffer used after lease release")
	}
	return &l.fb.data
}

func (l *Lease) Release() {
	if l.released.CompareAndSwap(false, true) {
		l.fb.borrowed.Store(false)
	}
}

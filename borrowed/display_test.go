package borrowed_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/borrowed"
	"github.com/coreman2200/big-types/owned"
	"github.com/coreman2200/big-types/transport/transporttest"
)

func TestNewHoldsLease(t *testing.T) {
	var fb bigtypes.FrameBuffer
	rec := &transporttest.Recorder{}

	d, err := borrowed.New(bigtypes.NewInterface(rec), &fb)
	require.NoError(t, err)
	assert.True(t, fb.Borrowed())
	assert.Equal(t, []byte{bigtypes.InitCommand}, rec.Commands())

	// Nobody else can see the storage while the display is alive.
	assert.ErrorIs(t, fb.Inspect(func(*[bigtypes.BufferSize]byte) {}), bigtypes.ErrBufferBorrowed)

	require.NoError(t, d.Close())
	assert.False(t, fb.Borrowed())
}

func TestSecondBorrowRejected(t *testing.T) {
	var fb bigtypes.FrameBuffer
	_, err := borrowed.New(bigtypes.NewInterface(&transporttest.Recorder{}), &fb)
	require.NoError(t, err)

	rec := &transporttest.Recorder{}
	iface := bigtypes.NewInterface(rec)
	d, err := borrowed.New(iface, &fb)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, bigtypes.ErrBufferBorrowed)
	// The rejected call neither claimed nor touched the interface.
	assert.False(t, iface.Claimed())
	assert.Empty(t, rec.Snapshot())
}

func TestInitFailureReleasesLease(t *testing.T) {
	var fb bigtypes.FrameBuffer
	rec := &transporttest.Recorder{FailCmd: map[byte]bool{bigtypes.InitCommand: true}}

	d, err := borrowed.New(bigtypes.NewInterface(rec), &fb)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, bigtypes.ErrIface)
	assert.False(t, fb.Borrowed())

	_, err = borrowed.New(bigtypes.NewInterface(&transporttest.Recorder{}), &fb)
	assert.NoError(t, err)
}

func TestClaimedInterfaceReleasesLease(t *testing.T) {
	var fb bigtypes.FrameBuffer
	iface := bigtypes.NewInterface(&transporttest.Recorder{})
	_, err := iface.Claim()
	require.NoError(t, err)

	_, err = borrowed.New(iface, &fb)
	assert.ErrorIs(t, err, bigtypes.ErrInterfaceInUse)
	assert.False(t, fb.Borrowed())
}

func TestDrawWritesBorrowedStorage(t *testing.T) {
	var fb bigtypes.FrameBuffer
	rec := &transporttest.Recorder{}
	d, err := borrowed.New(bigtypes.NewInterface(rec), &fb)
	require.NoError(t, err)

	require.NoError(t, d.Draw(bigtypes.Fill(image.Rect(0, 0, 1, 8))))
	assert.Equal(t, byte(0xFF), rec.LastFrame()[0])

	rec.FailCmd = map[byte]bool{bigtypes.DrawCommand: true}
	assert.ErrorIs(t, d.Draw(bigtypes.Fill(image.Rect(1, 0, 2, 8))), bigtypes.ErrIface)

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Draw(bigtypes.Object{}), bigtypes.ErrClosed)

	// Once the borrow ends the storage shows what was drawn, including the
	// draw whose flush failed.
	require.NoError(t, fb.Inspect(func(buf *[bigtypes.BufferSize]byte) {
		assert.Equal(t, byte(0xFF), buf[0])
		assert.Equal(t, byte(0xFF), buf[1])
	}))
}

// drawer is the method set both variants expose.
type drawer interface {
	Draw(bigtypes.Object) error
	Close() error
}

func TestVariantsProduceSameTraffic(t *testing.T) {
	objs := []bigtypes.Object{
		{},
		bigtypes.Fill(image.Rect(3, 3, 40, 17)),
		bigtypes.Clear(image.Rect(5, 5, 9, 9)),
		bigtypes.Fill(image.Rect(100, 50, 200, 200)),
	}

	run := func(t *testing.T, build func(*bigtypes.Interface) (drawer, error)) []transporttest.Op {
		rec := &transporttest.Recorder{}
		d, err := build(bigtypes.NewInterface(rec))
		require.NoError(t, err)
		for _, o := range objs {
			require.NoError(t, d.Draw(o))
		}
		require.NoError(t, d.Close())
		return rec.Snapshot()
	}

	var fb bigtypes.FrameBuffer
	a := run(t, func(i *bigtypes.Interface) (drawer, error) { return owned.New(i) })
	b := run(t, func(i *bigtypes.Interface) (drawer, error) { return borrowed.New(i, &fb) })
	assert.Equal(t, a, b)
}

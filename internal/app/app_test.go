package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/borrowed"
	"github.com/coreman2200/big-types/critical"
	"github.com/coreman2200/big-types/internal/config"
	"github.com/coreman2200/big-types/owned"
)

func simConfig() *config.Config {
	c := config.Defaults()
	c.Transport = "sim"
	c.Preview.Addr = ""
	c.EventHz = 500
	return c
}

func runFor(t *testing.T, run func(context.Context) error, until func() bool) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- run(ctx) }()
	require.Eventually(t, until, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunOwned(t *testing.T) {
	var slot critical.Slot[*owned.Display]
	a := New(simConfig(), zerolog.Nop(), &slot, owned.New)
	require.NotNil(t, a.Hub)

	runFor(t, a.Run, func() bool { return a.Ctrl.Stats().Drawn >= 3 })

	assert.Len(t, a.Hub.LastFrame(), bigtypes.BufferSize)
	assert.False(t, a.Ctrl.Initialized())
	assert.Zero(t, a.Ctrl.Stats().Failed)
}

func TestRunBorrowed(t *testing.T) {
	var (
		slot critical.Slot[*borrowed.Display]
		fb   bigtypes.FrameBuffer
	)
	a := New(simConfig(), zerolog.Nop(), &slot, func(i *bigtypes.Interface) (*borrowed.Display, error) {
		return borrowed.New(i, &fb)
	})

	runFor(t, a.Run, func() bool { return a.Ctrl.Stats().Drawn >= 3 })

	// Shutdown closed the display, which ended the borrow.
	assert.False(t, fb.Borrowed())
	require.NoError(t, fb.Inspect(func(buf *[bigtypes.BufferSize]byte) {
		assert.Equal(t, a.Hub.LastFrame(), buf[:])
	}))
}

func TestRunWithFailedInit(t *testing.T) {
	var slot critical.Slot[*owned.Display]
	boom := errors.New("no panel")
	a := New(simConfig(), zerolog.Nop(), &slot, func(*bigtypes.Interface) (*owned.Display, error) {
		return nil, boom
	})
	assert.ErrorIs(t, a.Init(), boom)

	runFor(t, a.Run, func() bool { return a.Ctrl.Stats().Dropped >= 3 })
	assert.Zero(t, a.Ctrl.Stats().Drawn)
	assert.Nil(t, a.Hub.LastFrame())
}

func TestUnknownTransportFallsBackToSim(t *testing.T) {
	var slot critical.Slot[*owned.Display]
	cfg := simConfig()
	cfg.Transport = "carrier-pigeon"
	a := New(cfg, zerolog.Nop(), &slot, owned.New)
	assert.NotNil(t, a.Hub)
	assert.Nil(t, a.Hub.Next)
}

func TestSweep(t *testing.T) {
	s := &Sweep{Band: 64}
	assert.Equal(t, bigtypes.Fill(image.Rect(0, 0, 64, bigtypes.Height)), s.Next())
	assert.Equal(t, bigtypes.Fill(image.Rect(64, 0, 128, bigtypes.Height)), s.Next())
	assert.Equal(t, bigtypes.Clear(image.Rect(0, 0, 64, bigtypes.Height)), s.Next())

	d := &Sweep{}
	assert.Equal(t, 8, d.Next().Rect.Dx())
}

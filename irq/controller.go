package irq

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/critical"
)

// Drawer is what both display variants offer the handler.
type Drawer interface {
	Draw(obj bigtypes.Object) error
}

type Stats struct {
	Drawn   uint64 `json:"drawn"`
	Dropped uint64 `json:"dropped"`
	Failed  uint64 `json:"failed"`
}

// Controller installs a display into a shared slot from the main context and
// draws through it from the event handler. Every slot access happens inside
// critical.Free.
type Controller[D Drawer] struct {
	slot *critical.Slot[D]
	log  zerolog.Logger

	drawn, dropped, failed atomic.Uint64
}

func NewController[D Drawer](slot *critical.Slot[D], log zerolog.Logger) *Controller[D] {
	return &Controller[D]{slot: slot, log: log}
}

// Init builds the display inside one critical section and installs it only if
// build succeeds. On error the slot is left as it was.
func (c *Controller[D]) Init(build func() (D, error)) error {
	var err error
	critical.Free(func(cs critical.CS) {
		d, e := build()
		if e != nil {
			err = e
			return
		}
		c.slot.Replace(cs, d)
	})
	return err
}

// CommandReady is the handler body for one draw event. With no display
// installed the event is dropped and nil returned. Otherwise Draw runs
// exactly once and its error is returned to the caller.
func (c *Controller[D]) CommandReady(obj bigtypes.Object) error {
	var (
		err       error
		installed bool
	)
	critical.Free(func(cs critical.CS) {
		d, ok := c.slot.Get(cs)
		if !ok {
			return
		}
		installed = true
		err = d.Draw(obj)
	})

	switch {
	case !installed:
		c.dropped.Add(1)
	case err != nil:
		c.failed.Add(1)
		c.log.Debug().Err(err).Msg("draw failed")
	default:
		c.drawn.Add(1)
	}
	return err
}

// Initialized reports whether a display is installed.
func (c *Controller[D]) Initialized() bool {
	var ok bool
	critical.Free(func(cs critical.CS) { ok = c.slot.Loaded(cs) })
	return ok
}

// Shutdown removes the installed display and hands it back.
func (c *Controller[D]) Shutdown() (D, bool) {
	var (
		d  D
		ok bool
	)
	critical.Free(func(cs critical.CS) { d, ok = c.slot.Take(cs) })
	return d, ok
}

func (c *Controller[D]) Stats() Stats {
	return Stats{
		Drawn:   c.drawn.Load(),
		Dropped: c.dropped.Load(),
		Failed:  c.failed.Load(),
	}
}

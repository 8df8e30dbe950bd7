// Command borrowed runs the display driver that draws into a statically
// allocated frame buffer it does not own.
package main

import (
	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/borrowed"
	"github.com/coreman2200/big-types/critical"
	"github.com/coreman2200/big-types/internal/app"
)

var (
	// display is shared between startup and the draw interrupt handler.
	display critical.Slot[*borrowed.Display]
	// frameBuffer outlives every Display; only the installed one may touch it.
	frameBuffer bigtypes.FrameBuffer
)

func main() {
	cfg, log := app.Setup("borrowed")
	ctx, cancel := app.SignalContext(log)
	defer cancel()

	build := func(iface *bigtypes.Interface) (*borrowed.Display, error) {
		return borrowed.New(iface, &frameBuffer)
	}
	if err := app.New(cfg, log, &display, build).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}

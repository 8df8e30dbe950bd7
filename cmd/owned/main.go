// Command owned runs the display driver that carries its own frame buffer.
package main

import (
	"github.com/coreman2200/big-types/critical"
	"github.com/coreman2200/big-types/internal/app"
	"github.com/coreman2200/big-types/owned"
)

// display is shared between startup and the draw interrupt handler.
var display critical.Slot[*owned.Display]

func main() {
	cfg, log := app.Setup("owned")
	ctx, cancel := app.SignalContext(log)
	defer cancel()

	if err := app.New(cfg, log, &display, owned.New).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}

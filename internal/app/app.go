// Package app wires a display variant to a transport, the shared slot and the
// draw interrupt. Both demo commands run through it.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/critical"
	"github.com/coreman2200/big-types/internal/config"
	"github.com/coreman2200/big-types/internal/preview"
	"github.com/coreman2200/big-types/irq"
	"github.com/coreman2200/big-types/transport"
)

// LineName is the interrupt that carries draw commands.
const LineName = "USART1"

type App[D irq.Drawer] struct {
	Cfg  *config.Config
	Ctrl *irq.Controller[D]
	Line *irq.Line
	Hub  *preview.Hub // nil without preview

	build     func(*bigtypes.Interface) (D, error)
	transport bigtypes.Transport
	closers   []io.Closer
	src       *Sweep
	log       zerolog.Logger
}

// New opens the transport cfg names. slot is the caller's process-wide
// display slot; build constructs the display variant over the interface.
func New[D irq.Drawer](cfg *config.Config, log zerolog.Logger, slot *critical.Slot[D], build func(*bigtypes.Interface) (D, error)) *App[D] {
	a := &App[D]{
		Cfg:   cfg,
		Ctrl:  irq.NewController(slot, log),
		Line:  irq.NewLine(LineName),
		build: build,
		src:   &Sweep{},
		log:   log,
	}
	a.transport = a.openTransport()
	return a
}

func (a *App[D]) openTransport() bigtypes.Transport {
	var t bigtypes.Transport
	switch a.Cfg.Transport {
	case "spi":
		s, err := transport.OpenSPI(a.Cfg.SPI.Dev, a.Cfg.SPI.DCPin, physic.Frequency(a.Cfg.SPI.SpeedHz)*physic.Hertz)
		if err != nil {
			a.log.Warn().Err(err).
				Str("dev", a.Cfg.SPI.Dev).
				Str("dc_pin", a.Cfg.SPI.DCPin).
				Msg("SPI open failed; printing at the console")
			c := transport.NewConsole(a.log)
			a.closers = append(a.closers, c)
			t = c
		} else {
			a.closers = append(a.closers, s)
			t = s
		}
	case "console":
		c := transport.NewConsole(a.log)
		a.closers = append(a.closers, c)
		t = c
	case "sim", "":
	default:
		a.log.Warn().Str("transport", a.Cfg.Transport).Msg("unknown transport; using sim")
	}

	if t == nil || a.Cfg.Preview.Addr != "" {
		a.Hub = preview.NewHub(t, a.log)
		a.Hub.Trigger = a.Line.Pend
		a.Hub.Stats = func() any { return a.Ctrl.Stats() }
		t = a.Hub
	}
	return t
}

// Init constructs the display and installs it. On failure the slot stays
// empty and every later draw event is dropped.
func (a *App[D]) Init() error {
	iface := bigtypes.NewInterface(a.transport)
	return a.Ctrl.Init(func() (D, error) { return a.build(iface) })
}

// Run installs the display, then serves the interrupt line until ctx ends. A
// failed init is logged and the loop keeps running with an empty slot.
func (a *App[D]) Run(ctx context.Context) error {
	if err := a.Init(); err != nil {
		a.log.Error().Err(err).Msg("display init failed; draw events will be dropped")
	} else {
		a.log.Info().Str("transport", a.Cfg.Transport).Msg("display installed")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	served := make(chan struct{})
	go func() {
		defer close(served)
		_ = a.Line.Serve(ctx, a.isr)
	}()

	looper := &Looper{line: a.Line, hz: a.Cfg.EventHz, log: a.log}
	go looper.Run(ctx)

	var srv *http.Server
	if a.Hub != nil && a.Cfg.Preview.Addr != "" {
		srv = &http.Server{
			Addr:         a.Cfg.Preview.Addr,
			Handler:      a.Hub.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			a.log.Info().Str("addr", srv.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Msg("preview server failed")
				cancel()
			}
		}()
	}

	<-ctx.Done()
	if srv != nil {
		_ = srv.Close()
	}
	<-served
	a.shutdown()
	return nil
}

func (a *App[D]) isr() {
	_ = a.Ctrl.CommandReady(a.src.Next())
}

func (a *App[D]) shutdown() {
	if d, ok := a.Ctrl.Shutdown(); ok {
		if c, ok := any(d).(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.log.Warn().Err(err).Msg("display close")
			}
		}
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	s := a.Ctrl.Stats()
	a.log.Info().
		Uint64("drawn", s.Drawn).
		Uint64("dropped", s.Dropped).
		Uint64("failed", s.Failed).
		Msg("stopped")
}

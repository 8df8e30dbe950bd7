package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	bigtypes "github.com/coreman2200/big-types"
	"github.com/coreman2200/big-types/irq"
)

// Looper stands in for the UART that raises a command-ready interrupt: it
// pends the line at a fixed rate until its context ends.
type Looper struct {
	line *irq.Line
	hz   float64
	log  zerolog.Logger
}

func (l *Looper) Run(ctx context.Context) {
	if l.hz <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / l.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !l.line.Pend() {
				l.log.Trace().Str("line", l.line.Name).Msg("event coalesced")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep is the command decoder stand-in: each call yields the next band of a
// left to right wipe, alternating fill and clear passes.
type Sweep struct {
	Band  int
	x     int
	clear bool
}

func (s *Sweep) Next() bigtypes.Object {
	band := s.Band
	if band <= 0 {
		band = 8
	}
	obj := bigtypes.Object{Rect: bigtypes.Bounds}
	obj.Rect.Min.X, obj.Rect.Max.X = s.x, s.x+band
	if s.clear {
		obj = bigtypes.Clear(obj.Rect)
	} else {
		obj = bigtypes.Fill(obj.Rect)
	}
	s.x += band
	if s.x >= bigtypes.Width {
		s.x = 0
		s.clear = !s.clear
	}
	return obj
}

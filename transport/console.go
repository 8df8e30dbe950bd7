package transport

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	bigtypes "github.com/coreman2200/big-types"
)

// Console prints frames to the terminal one pixel row per line. It is the
// fallback when no SPI port can be opened.
type Console struct {
	mu     sync.Mutex
	drawer display.Drawer
	out    io.Writer
	log    zerolog.Logger
	Frames int
}

func NewConsole(log zerolog.Logger) *Console {
	return &Console{
		drawer: screen.New(bigtypes.Width),
		out:    os.Stdout,
		log:    log,
	}
}

func (c *Console) WriteCmd(cmd byte) error {
	c.log.Debug().Uint8("cmd", cmd).Msg("console command")
	return nil
}

func (c *Console) WriteData(p []byte) error {
	if len(p) != bigtypes.BufferSize {
		return fmt.Errorf("console: frame is %d bytes, want %d", len(p), bigtypes.BufferSize)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	img := bigtypes.ImageFromBytes(p)
	row := image.Rect(0, 0, bigtypes.Width, 1)
	for y := 0; y < bigtypes.Height; y++ {
		if err := c.drawer.Draw(row, img, image.Pt(0, y)); err != nil {
			return fmt.Errorf("console draw: %w", err)
		}
		fmt.Fprintf(c.out, "\n")
	}
	c.Frames++
	return nil
}

func (c *Console) Close() error {
	return c.drawer.Halt()
}

// Package transport holds the bigtypes.Transport implementations: a 4-wire
// SPI link and a console fallback for machines without a bus.
package transport

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const DefaultSpeed = 8 * physic.MegaHertz

// SPI sends commands with D/C low and frame data with D/C high, the usual
// wiring for SSD1306 class controllers.
type SPI struct {
	mu    sync.Mutex
	port  spi.PortCloser // nil when the caller owns the port
	conn  spi.Conn
	dc    gpio.PinOut
	chunk int
}

// NewSPI connects to port in mode 0, 8 bits per word. dc selects command or
// data.
func NewSPI(port spi.Port, dc gpio.PinOut, speed physic.Frequency) (*SPI, error) {
	if dc == nil {
		return nil, fmt.Errorf("spi: D/C pin required")
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	c, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect: %w", err)
	}
	s := &SPI{conn: c, dc: dc}
	if l, ok := c.(conn.Limits); ok {
		s.chunk = l.MaxTxSize()
	}
	return s, nil
}

// OpenSPI initializes the host drivers and opens the named port and D/C pin.
// An empty dev picks the first port.
func OpenSPI(dev, dcPin string, speed physic.Frequency) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	dc := gpioreg.ByName(dcPin)
	if dc == nil {
		_ = p.Close()
		return nil, fmt.Errorf("no gpio named %q", dcPin)
	}
	s, err := NewSPI(p, dc, speed)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

func (s *SPI) WriteCmd(cmd byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx(gpio.Low, []byte{cmd})
}

func (s *SPI) WriteData(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx(gpio.High, p)
}

func (s *SPI) tx(l gpio.Level, p []byte) error {
	if s.conn == nil {
		return fmt.Errorf("spi closed")
	}
	if err := s.dc.Out(l); err != nil {
		return fmt.Errorf("spi set D/C: %w", err)
	}
	for len(p) > 0 {
		n := len(p)
		if s.chunk > 0 && n > s.chunk {
			n = s.chunk
		}
		if err := s.conn.Tx(p[:n], nil); err != nil {
			return fmt.Errorf("spi tx: %w", err)
		}
		p = p[n:]
	}
	return nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("spi{%s dc=%s}", s.conn, s.dc)
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = nil
	if s.port != nil {
		err := s.port.Close()
		s.port = nil
		return err
	}
	return nil
}

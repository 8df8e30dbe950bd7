package app

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/big-types/internal/config"
)

// Setup parses the shared command line flags, sets up logging and loads
// config.yaml. Values in the config file override flags.
func Setup(name string) (*config.Config, zerolog.Logger) {
	def := config.Defaults()
	var (
		transport  = flag.String("transport", def.Transport, "transport: spi | console | sim")
		spiDev     = flag.String("spi-dev", def.SPI.Dev, "SPI port name, empty for the first one")
		dcPin      = flag.String("dc-pin", def.SPI.DCPin, "data/command GPIO pin")
		speedHz    = flag.Int("speed-hz", def.SPI.SpeedHz, "SPI clock in Hz")
		eventHz    = flag.Float64("event-hz", def.EventHz, "simulated command-ready interrupts per second")
		addr       = flag.String("addr", def.Preview.Addr, "preview HTTP listen address, empty to disable")
		level      = flag.String("log-level", def.LogLevel, "log level")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := &config.Config{
		Transport: *transport,
		EventHz:   *eventHz,
		LogLevel:  *level,
		SPI:       config.SPI{Dev: *spiDev, SpeedHz: *speedHz, DCPin: *dcPin},
		Preview:   config.Preview{Addr: *addr},
	}
	if err := config.LoadInto(*configPath, cfg); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level")
	}
	return cfg, log.With().Str("variant", name).Logger()
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-ch:
			logger.Info().Str("signal", s.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

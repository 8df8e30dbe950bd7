package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, empty for the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 8000000
	DCPin   string `yaml:"dc_pin"`   // e.g. GPIO24
}

type Preview struct {
	Addr string `yaml:"addr"` // empty disables the HTTP preview
}

type Config struct {
	Transport string  `yaml:"transport"` // "spi" | "console" | "sim"
	EventHz   float64 `yaml:"event_hz"`  // simulated command-ready interrupts per second
	LogLevel  string  `yaml:"log_level"`

	SPI     SPI     `yaml:"spi,omitempty"`
	Preview Preview `yaml:"preview,omitempty"`
}

func Defaults() *Config {
	return &Config{
		Transport: "sim",
		EventHz:   10,
		LogLevel:  "info",
		SPI: SPI{
			SpeedHz: 8000000,
			DCPin:   "GPIO24",
		},
		Preview: Preview{Addr: ":8080"},
	}
}

// Load reads path over the defaults, so fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	c := Defaults()
	if err := LoadInto(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadInto overlays the file at path onto c.
func LoadInto(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

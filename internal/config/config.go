// Public domain.

// Package config reads the skygeom configuration file.
//
// The file is TOML:
//
//	units = "deg"
//	radius = 1.0
//	log_level = "info"
//
//	[header]
//	CTYPE1 = "RA---TAN"
//	CTYPE2 = "DEC--TAN"
//	CRPIX1 = 512
//	...
//
// Every key is optional. Unknown keys are an error.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jesaerys/skygeom/sparea"
	"github.com/jesaerys/skygeom/wcs"
	"github.com/sirupsen/logrus"
)

// Config holds the settings for the skygeom command.
type Config struct {
	// Header holds the WCS keywords used by pix2world and world2pix.
	Header wcs.Header `toml:"header"`
	// Units is "deg" or "rad", for polygon vertices and areas.
	Units string `toml:"units"`
	// Radius of the sphere for polygon areas.
	Radius   float64 `toml:"radius"`
	LogLevel string  `toml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{Units: "deg", Radius: 1, LogLevel: "info"}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read decodes and validates a configuration. Keys missing from r keep
// their Default values.
func Read(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf("config: unknown keys %v", und)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting, including the WCS header if present.
func (c *Config) Validate() error {
	if _, err := c.AreaUnits(); err != nil {
		return err
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("config: radius must be positive, got %g", c.Radius)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if len(c.Header) > 0 {
		if _, err := wcs.New(c.Header); err != nil {
			return fmt.Errorf("config: header: %w", err)
		}
	}
	return nil
}

// AreaUnits converts Units for sparea.
func (c *Config) AreaUnits() (sparea.Units, error) {
	switch c.Units {
	case "deg":
		return sparea.Degrees, nil
	case "rad":
		return sparea.Radians, nil
	}
	return 0, fmt.Errorf(`config: units must be "deg" or "rad", got %q`, c.Units)
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return l, fmt.Errorf("config: %v", err)
	}
	return l, nil
}

// Public domain.

// Command skygeom converts between pixel and sky coordinates of a TAN
// image, measures spherical polygons, and fits z = a*x + b*y.
//
// Settings, including the WCS header, come from a TOML file named with
// --config. See package internal/config for the format.
package main

import "os"

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

// Public domain.

package main

import (
	"fmt"
	"math"

	"github.com/jesaerys/skygeom/internal/config"
	"github.com/jesaerys/skygeom/lsq2d"
	"github.com/jesaerys/skygeom/sparea"
	"github.com/jesaerys/skygeom/wcs"
	"github.com/sirupsen/logrus"
	"github.com/soniakeys/coord"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// Version is the skygeom version.
const Version = "0.1.0"

// app holds state shared by the commands of one invocation.
type app struct {
	cfgPath  string
	logLevel string
	cfg      *config.Config
	log      *logrus.Logger
}

func newRoot() *cobra.Command {
	a := &app{log: logrus.New()}
	root := &cobra.Command{
		Use:   "skygeom",
		Short: "Sky coordinate and spherical geometry tools.",
		Long: `skygeom converts between pixel and celestial coordinates for images with a
gnomonic (TAN) World Coordinate System, computes areas of polygons on a
sphere, and fits z = a*x + b*y to samples by least squares.

The WCS header, polygon units and sphere radius are read from a TOML file
given with --config.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to TOML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overriding the configuration file")
	root.AddCommand(a.pix2worldCmd(), a.world2pixCmd(), a.areaCmd(), a.fitCmd(), versionCmd())
	return root
}

// setup reads the configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	a.cfg = config.Default()
	if a.cfgPath != "" {
		c, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = c
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	l, err := a.cfg.Level()
	if err != nil {
		return err
	}
	a.log.SetLevel(l)
	a.log.WithField("config", a.cfgPath).Debug("configuration loaded")
	return nil
}

func (a *app) wcs() (*wcs.WCS, error) {
	if len(a.cfg.Header) == 0 {
		return nil, fmt.Errorf("skygeom: no [header] in configuration")
	}
	u1, u2 := a.cfg.Header.Units()
	if (u1 != "" && u1 != "deg") || (u2 != "" && u2 != "deg") {
		a.log.WithFields(logrus.Fields{"CUNIT1": u1, "CUNIT2": u2}).
			Warn("CUNIT ignored, assuming degrees")
	}
	return wcs.New(a.cfg.Header)
}

func floatArgs(args []string) ([]float64, error) {
	f := make([]float64, len(args))
	for i, s := range args {
		var err error
		if f[i], err = cast.ToFloat64E(s); err != nil {
			return nil, fmt.Errorf("skygeom: argument %q is not a number", s)
		}
	}
	return f, nil
}

func (a *app) pix2worldCmd() *cobra.Command {
	var sexagesimal bool
	cmd := &cobra.Command{
		Use:   "pix2world X Y",
		Short: "Convert pixel coordinates to celestial coordinates.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := floatArgs(args)
			if err != nil {
				return err
			}
			w, err := a.wcs()
			if err != nil {
				return err
			}
			c, err := w.PixelToWorld(wcs.Pixel{X: f[0], Y: f[1]})
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"x": f[0], "y": f[1]}).Debug("pix2world")
			fmt.Fprintln(cmd.OutOrStdout(), formatSphr(c, sexagesimal))
			return nil
		},
	}
	cmd.Flags().BoolVar(&sexagesimal, "sexa", false, "print RA and Dec in sexagesimal")
	return cmd
}

func formatSphr(c coord.Sphr, sexagesimal bool) string {
	if sexagesimal {
		// width 2 keeps the leading hour and degree segments
		return fmt.Sprintf("%2.3s %2.2s", sexa.FmtRA(c.Lon.RA()), sexa.FmtAngle(c.Lat))
	}
	return fmt.Sprintf("%.8f %.8f", c.Lon.Deg(), c.Lat.Deg())
}

func (a *app) world2pixCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "world2pix LON LAT",
		Short:   "Convert celestial coordinates in degrees to pixel coordinates.",
		Example: "  skygeom world2pix --config m31.toml -- 10.68 -41.27",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := floatArgs(args)
			if err != nil {
				return err
			}
			w, err := a.wcs()
			if err != nil {
				return err
			}
			p, err := w.WorldToPixel(coord.Sphr{Lon: unit.AngleFromDeg(f[0]), Lat: unit.AngleFromDeg(f[1])})
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"lon": f[0], "lat": f[1]}).Debug("world2pix")
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f\n", p.X, p.Y)
			return nil
		},
	}
}

func (a *app) areaCmd() *cobra.Command {
	var lon, lat []float64
	var radius float64
	var units string
	cmd := &cobra.Command{
		Use:   "area --lon L1,L2,... --lat B1,B2,...",
		Short: "Compute the area of a polygon on a sphere.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("radius") {
				a.cfg.Radius = radius
			}
			if cmd.Flags().Changed("units") {
				a.cfg.Units = units
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			u, _ := a.cfg.AreaUnits()
			area, err := sparea.Area(lon, lat, a.cfg.Radius, u)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"vertices": len(lon), "units": a.cfg.Units}).Debug("area")
			fmt.Fprintf(cmd.OutOrStdout(), "%g\n", area)
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&lon, "lon", nil, "vertex longitudes")
	cmd.Flags().Float64SliceVar(&lat, "lat", nil, "vertex latitudes")
	cmd.Flags().Float64Var(&radius, "radius", 1, "sphere radius")
	cmd.Flags().StringVar(&units, "units", "deg", `vertex units, "deg" or "rad"`)
	return cmd
}

func (a *app) fitCmd() *cobra.Command {
	var x, y, z, w []float64
	cmd := &cobra.Command{
		Use:   "fit --x ... --y ... --z ... [--w ...]",
		Short: "Fit z = a*x + b*y by least squares.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if w == nil {
				fa, fb, err := lsq2d.Fit(x, y, z)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "a = %g\nb = %g\n", fa, fb)
				return nil
			}
			s, err := lsq2d.FitWeighted(x, y, z, w)
			if err != nil {
				return err
			}
			a.log.WithField("samples", len(s.Res())).Debug("weighted fit")
			fmt.Fprintf(out, "a = %g ± %g\nb = %g ± %g\nrms = %g\n",
				s.A, math.Sqrt(s.Cov.At(0, 0)), s.B, math.Sqrt(s.Cov.At(1, 1)), s.Rms())
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&x, "x", nil, "x samples")
	cmd.Flags().Float64SliceVar(&y, "y", nil, "y samples")
	cmd.Flags().Float64SliceVar(&z, "z", nil, "z samples")
	cmd.Flags().Float64SliceVar(&w, "w", nil, "sample weights")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skygeom v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}
}

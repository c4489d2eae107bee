package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/forestrie/go-skyindex/mesh"
	"github.com/forestrie/go-skyindex/starindex"
	"github.com/spf13/cobra"
)

var (
	errOneLookup = errors.New("exactly one of --name, --alt, --xref or --id is required")
	errNoStar    = errors.New("no such star")
)

// sky holds the flags shared by the commands that look at a patch of sky.
type sky struct {
	ra, dec float64
	radius  float64
	mag     float64
	year    float64
}

func (s *sky) flags(cmd *cobra.Command, radius float64) {
	cmd.Flags().Float64Var(&s.ra, "ra", 0, "right ascension, degrees")
	cmd.Flags().Float64Var(&s.dec, "dec", 0, "declination, degrees")
	cmd.Flags().Float64Var(&s.radius, "radius", radius, "radius, degrees")
	cmd.Flags().Float64Var(&s.mag, "mag", math.Inf(1), "faintest magnitude")
	cmd.Flags().Float64Var(&s.year, "epoch", math.NaN(), "epoch as a decimal year, the configured epoch by default")
}

func (s *sky) point() mesh.SkyPoint { return mesh.NewSkyPoint(s.ra, s.dec) }

var (
	regionSky   sky
	regionLimit int

	regionCmd = &cobra.Command{
		Use:   "region",
		Short: "List the stars within a radius of a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.pass(cmd, regionSky.year)
			vp := starindex.Viewport{Center: regionSky.point(), Radius: regionSky.radius}
			n := 0
			for st := range s.ix.RegionScan(p, vp, regionSky.mag) {
				printStar(cmd.OutOrStdout(), st, p)
				n++
				if regionLimit > 0 && n >= regionLimit {
					break
				}
			}
			s.log.Infof("region scan: %d stars", n)
			return nil
		},
	}

	nearestSky sky

	nearestCmd = &cobra.Command{
		Use:   "nearest",
		Short: "Find the star nearest a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.pass(cmd, nearestSky.year)
			s.ix.SetMagnitudeLimit(nearestSky.mag)
			st, d, ok := s.ix.NearestObject(p, nearestSky.point(), nearestSky.radius)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no star within %.4f degrees\n", nearestSky.radius)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f degrees: ", d)
			printStar(cmd.OutOrStdout(), st, p)
			return nil
		},
	}

	lookupName string
	lookupAlt  string
	lookupXRef uint32
	lookupID   int64
	lookupYear float64

	lookupCmd = &cobra.Command{
		Use:   "lookup",
		Short: "Find a star by name, alternate name, cross reference or id",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, f := range []string{"name", "alt", "xref", "id"} {
				if cmd.Flags().Changed(f) {
					set++
				}
			}
			if set != 1 {
				return errOneLookup
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var st starindex.Star
			var ok bool
			switch {
			case cmd.Flags().Changed("name"):
				st, ok = s.ix.ByName(lookupName)
			case cmd.Flags().Changed("alt"):
				st, ok = s.ix.ByAlternateName(lookupAlt)
			case cmd.Flags().Changed("xref"):
				st, ok = s.ix.ByCrossReferenceID(lookupXRef)
			default:
				if lookupID >= 0 {
					st, ok = s.ix.ByID(starindex.StarID(lookupID))
				}
			}
			if !ok {
				return errNoStar
			}
			printStar(cmd.OutOrStdout(), st, s.pass(cmd, lookupYear))
			return nil
		},
	}
)

func init() {
	regionSky.flags(regionCmd, 5)
	regionCmd.Flags().IntVar(&regionLimit, "limit", 0, "stop after this many stars, 0 for no limit")

	nearestSky.flags(nearestCmd, 1)

	lookupCmd.Flags().StringVar(&lookupName, "name", "", "long or alternate name, any case")
	lookupCmd.Flags().StringVar(&lookupAlt, "alt", "", "exact alternate name")
	lookupCmd.Flags().Uint32Var(&lookupXRef, "xref", 0, "cross reference id")
	lookupCmd.Flags().Int64Var(&lookupID, "id", -1, "resident star id")
	lookupCmd.Flags().Float64Var(&lookupYear, "epoch", math.NaN(), "epoch, as a decimal year, the position is shown for")
}

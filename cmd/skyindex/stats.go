package main

import (
	"github.com/forestrie/go-skyindex/blockcache"
	"github.com/forestrie/go-skyindex/starindex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var (
	statsSky sky

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Run a region scan and print the block cache metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.pass(cmd, statsSky.year)
			vp := starindex.Viewport{Center: statsSky.point(), Radius: statsSky.radius}
			n := 0
			for range s.ix.RegionScan(p, vp, statsSky.mag) {
				n++
			}
			s.log.Infof("region scan: %d stars", n)
			for _, w := range s.ix.Cache().Verify() {
				s.log.Infof("integrity: %s", w)
			}

			reg := prometheus.NewPedanticRegistry()
			if err := reg.Register(blockcache.NewCollector(s.ix.Cache())); err != nil {
				return err
			}
			families, err := reg.Gather()
			if err != nil {
				return err
			}
			for _, mf := range families {
				if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	statsSky.flags(statsCmd, 30)
}

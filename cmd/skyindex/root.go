package main

import (
	"fmt"
	"io"
	"math"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-skyindex/config"
	"github.com/forestrie/go-skyindex/starindex"
	"github.com/spf13/cobra"
)

const serviceName = "skyindex"

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:          "skyindex",
		Short:        "Build, inspect and query tiered star catalogs",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "skyindex.yaml", "catalog configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the configuration")

	rootCmd.AddCommand(synthCmd, infoCmd, regionCmd, nearestCmd, lookupCmd, xrefCmd, statsCmd)
}

// session is an opened index and the configuration it came from.
type session struct {
	cfg config.Config
	ix  *starindex.Index
	log logger.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if level != "" {
		logger.New(level)
	}
	log := logger.Sugar.WithServiceName(serviceName)

	m, err := cfg.Mesh()
	if err != nil {
		return nil, err
	}
	ix, err := starindex.Open(cmd.Context(), log, m, cfg.TierConfigs(), cfg.Options()...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, ix: ix, log: log}, nil
}

func (s *session) Close() error { return s.ix.Close() }

// pass starts a pass at year, or at the configured epoch when year is NaN,
// and brings the index up to date for it.
func (s *session) pass(cmd *cobra.Command, year float64) starindex.Pass {
	if math.IsNaN(year) {
		year = s.cfg.EpochYear
	}
	p := s.ix.Pass(starindex.EpochOfYear(year))
	kind := s.ix.Reindex(cmd.Context(), p)
	s.log.Debugf("pass at %.2f, %s reindex", year, kind)
	return p
}

func printStar(w io.Writer, st starindex.Star, p starindex.Pass) {
	pos := st.ApparentPosition(p)
	id := "-"
	if st.ID != starindex.NoStar {
		id = fmt.Sprint(st.ID)
	}
	fmt.Fprintf(w, "%-8s %8s %11.6f %+11.6f %6.2f %6.2f %8d  %s",
		st.Tier, id, pos.RA, pos.Dec, st.Mag, st.BV, st.XRef, st.Name)
	if st.AltName != "" {
		fmt.Fprintf(w, " (%s)", st.AltName)
	}
	fmt.Fprintln(w)
}

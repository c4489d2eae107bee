package main

import (
	"fmt"
	"path/filepath"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/spf13/cobra"
)

var (
	xrefTier string
	xrefOut  string

	xrefCmd = &cobra.Command{
		Use:   "xref",
		Short: "Manage cross reference sidecars of block cached tiers",
	}

	xrefBuildCmd = &cobra.Command{
		Use:   "build",
		Short: "Scan a block cached tier and write its cross reference sidecar",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			x, err := s.ix.BuildCrossReference(xrefTier)
			if err != nil {
				return fmt.Errorf("tier %s: %w", xrefTier, err)
			}
			out := xrefOut
			if out == "" {
				out = filepath.Join(s.cfg.CatalogDir, xrefTier+".xref")
			}
			if err := catalog.SaveXRefIndex(out, x); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cross references\n", out, len(x.Entries))
			return nil
		},
	}
)

func init() {
	xrefBuildCmd.Flags().StringVar(&xrefTier, "tier", "", "block cached tier to index")
	xrefBuildCmd.Flags().StringVar(&xrefOut, "out", "", "sidecar path, <catalog_dir>/<tier>.xref by default")
	_ = xrefBuildCmd.MarkFlagRequired("tier")
	xrefCmd.AddCommand(xrefBuildCmd)
}

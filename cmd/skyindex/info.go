package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the configured tiers and the state of the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIER\tKIND\tAVAILABLE\tRECORDS\tBRIGHT\tFAINT\tTRIGGER\tXREF\tERROR")
		for _, t := range s.ix.Tiers() {
			kind := "cached"
			if t.Config.Resident {
				kind = "resident"
			}
			errText := ""
			if t.Err != nil {
				errText = t.Err.Error()
			}
			fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%.2f\t%.2f\t%.2f\t%t\t%s\n",
				t.Config.Name, kind, t.Available, t.Header.TotalRecords,
				t.Header.BrightMag, t.Header.FaintMag, t.Config.TriggerMag, t.HasCrossReference(), errText)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "\nmesh depth %d, %d trixels\n", s.ix.Mesh().Depth(), s.ix.Mesh().Size())
		fmt.Fprintf(w, "%d resident stars, faintest available magnitude %.2f\n", s.ix.Len(), s.ix.FaintestAvailableMagnitude())
		fmt.Fprintf(w, "full reindex every %.1f years\n", s.ix.ReindexInterval())
		for _, b := range s.ix.FastMovers() {
			fmt.Fprintf(w, "band > %.0f mas/yr: %d stars\n", b.Cutoff, len(b.Members))
		}
		return nil
	},
}

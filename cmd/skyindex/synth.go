package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forestrie/go-skyindex/catalogtesting"
	"github.com/forestrie/go-skyindex/config"
	"github.com/forestrie/go-skyindex/mesh"
	"github.com/spf13/cobra"
)

var (
	synthOut   string
	synthBase  int
	synthDeep  int
	synthSeed  int64
	synthDepth uint8
	synthBig   bool

	synthCmd = &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic two tier catalog and its configuration",
		Long: `synth writes a resident, named, bright tier and a block cached faint tier
of randomly placed stars, and a configuration file for them. The same seed
always gives the same catalog.`,
		RunE: runSynth,
	}
)

const baseFaint = 6.5

func init() {
	synthCmd.Flags().StringVar(&synthOut, "out", "catalog", "output directory")
	synthCmd.Flags().IntVar(&synthBase, "stars", 9000, "stars in the resident tier")
	synthCmd.Flags().IntVar(&synthDeep, "deep", 100000, "stars in the block cached tier")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 1, "random seed")
	synthCmd.Flags().Uint8Var(&synthDepth, "depth", 3, "mesh depth")
	synthCmd.Flags().BoolVar(&synthBig, "big-endian", false, "write the tiers big endian")
}

func runSynth(cmd *cobra.Command, args []string) error {
	m, err := mesh.New(synthDepth)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(synthOut, 0755); err != nil {
		return err
	}
	var order binary.ByteOrder = binary.LittleEndian
	if synthBig {
		order = binary.BigEndian
	}

	gen := catalogtesting.NewGenerator(synthSeed)
	base := gen.Stars(synthBase, -1.5, baseFaint, 2000)
	catalogtesting.Name(base, 10)
	catalogtesting.Number(base, 1)
	deep := gen.Stars(synthDeep, baseFaint, 12, 300)
	catalogtesting.Number(deep, uint32(synthBase)+1)

	baseFiles, err := catalogtesting.WriteTier(synthOut, "base", m, order, base)
	if err != nil {
		return fmt.Errorf("base tier: %w", err)
	}
	deepFiles, err := catalogtesting.WriteTier(synthOut, "deep", m, order, deep)
	if err != nil {
		return fmt.Errorf("deep tier: %w", err)
	}

	cfg := config.Default()
	cfg.MeshDepth = synthDepth
	cfg.Tiers = []config.Tier{
		{
			Name:     baseFiles.Name,
			File:     filepath.Base(baseFiles.Path),
			Names:    filepath.Base(baseFiles.NamesPath),
			Resident: true,
		},
		{
			Name:       deepFiles.Name,
			File:       filepath.Base(deepFiles.Path),
			TriggerMag: baseFaint,
		},
	}
	path := filepath.Join(synthOut, "skyindex.yaml")
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %d stars, magnitudes %.2f to %.2f\n", baseFiles.Path,
		baseFiles.Header.TotalRecords, baseFiles.Header.BrightMag, baseFiles.Header.FaintMag)
	fmt.Fprintf(w, "%s: %d stars, magnitudes %.2f to %.2f\n", deepFiles.Path,
		deepFiles.Header.TotalRecords, deepFiles.Header.BrightMag, deepFiles.Header.FaintMag)
	fmt.Fprintf(w, "configuration: %s\n", path)
	return nil
}

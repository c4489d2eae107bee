package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forestrie/go-skyindex/blockcache"
	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
	"github.com/forestrie/go-skyindex/starindex"
	"gopkg.in/yaml.v3"
)

var (
	ErrMeshDepth   = errors.New("config: mesh depth out of range")
	ErrTierFile    = errors.New("config: tier has no file")
	ErrBlockBudget = errors.New("config: cache budget is smaller than one block")
)

// Tier configures one catalog tier. Relative paths are resolved against the
// catalog directory.
type Tier struct {
	Name       string  `yaml:"name"`
	File       string  `yaml:"file"`
	Names      string  `yaml:"names,omitempty"`
	XRef       string  `yaml:"xref,omitempty"`
	Resident   bool    `yaml:"resident"`
	TriggerMag float64 `yaml:"trigger_mag,omitempty"`
}

type Cache struct {
	BudgetBytes  int    `yaml:"budget_bytes"`
	BlockRecords uint32 `yaml:"block_records"`
}

type Reindex struct {
	DriftArcsec float64   `yaml:"drift_arcsec"`
	BandCutoffs []float64 `yaml:"band_cutoffs"`
}

// Zoom holds the constants of the zoom magnitude limit, a*log10(zoom) +
// b*log10(density) + c.
type Zoom struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

type Config struct {
	CatalogDir string `yaml:"catalog_dir"`
	MeshDepth  uint8  `yaml:"mesh_depth"`
	LogLevel   string `yaml:"log_level"`
	// EpochYear is the decimal year the index is first built for
	EpochYear    float64 `yaml:"epoch_year"`
	DrawBuffer   float64 `yaml:"draw_buffer_deg"`
	SearchBuffer float64 `yaml:"search_buffer_deg"`

	Tiers   []Tier  `yaml:"tiers"`
	Cache   Cache   `yaml:"cache"`
	Reindex Reindex `yaml:"reindex"`
	Zoom    Zoom    `yaml:"zoom"`
}

// Default returns a configuration with every tunable at its library default
// and no tiers.
func Default() Config {
	return Config{
		CatalogDir:   ".",
		MeshDepth:    3,
		LogLevel:     "INFO",
		EpochYear:    2000,
		DrawBuffer:   starindex.DefaultDrawBuffer,
		SearchBuffer: starindex.DefaultSearchBuffer,
		Cache: Cache{
			BudgetBytes:  blockcache.DefaultBudget,
			BlockRecords: blockcache.DefaultBlockRecords,
		},
		Reindex: Reindex{
			DriftArcsec: starindex.DefaultDriftBound,
			BandCutoffs: append([]float64(nil), starindex.DefaultBandCutoffs...),
		},
		Zoom: Zoom{
			A: starindex.DefaultZoomA,
			B: starindex.DefaultZoomB,
			C: starindex.DefaultZoomC,
		},
	}
}

// Load reads the YAML file at path over the defaults. Settings the file does
// not mention keep their default. A relative catalog_dir is taken relative
// to the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.CatalogDir) {
		cfg.CatalogDir = filepath.Join(filepath.Dir(path), cfg.CatalogDir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c Config) Validate() error {
	if c.MeshDepth > mesh.MaxDepth {
		return fmt.Errorf("%w: %d", ErrMeshDepth, c.MeshDepth)
	}
	for _, t := range c.Tiers {
		if t.File == "" {
			return fmt.Errorf("%w: %q", ErrTierFile, t.Name)
		}
	}
	if c.Cache.BudgetBytes < int(c.Cache.BlockRecords)*catalog.RecordBytes {
		return fmt.Errorf("%w: %d bytes", ErrBlockBudget, c.Cache.BudgetBytes)
	}
	return nil
}

func (c Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.CatalogDir, p)
}

// TierConfigs returns the tiers with their paths resolved.
func (c Config) TierConfigs() []starindex.TierConfig {
	out := make([]starindex.TierConfig, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		out = append(out, starindex.TierConfig{
			Name:       t.Name,
			Path:       c.path(t.File),
			NamesPath:  c.path(t.Names),
			XRefPath:   c.path(t.XRef),
			Resident:   t.Resident,
			TriggerMag: t.TriggerMag,
		})
	}
	return out
}

// Options returns the index options the configuration describes.
func (c Config) Options() []starindex.Option {
	return []starindex.Option{
		starindex.WithEpoch(starindex.EpochOfYear(c.EpochYear)),
		starindex.WithBandCutoffs(c.Reindex.BandCutoffs...),
		starindex.WithDriftBound(c.Reindex.DriftArcsec),
		starindex.WithDrawBuffer(c.DrawBuffer),
		starindex.WithSearchBuffer(c.SearchBuffer),
		starindex.WithZoomConstants(c.Zoom.A, c.Zoom.B, c.Zoom.C),
		starindex.WithCacheOptions(
			blockcache.WithBudget(c.Cache.BudgetBytes),
			blockcache.WithBlockRecords(c.Cache.BlockRecords),
		),
	}
}

func (c Config) Mesh() (mesh.Mesh, error) {
	return mesh.New(c.MeshDepth)
}

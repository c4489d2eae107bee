package starindex

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/forestrie/go-skyindex/blockcache"
	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

// TierConfig describes one catalog tier.
type TierConfig struct {
	Name string
	// Path is the tier file
	Path string
	// NamesPath is the name table of a resident tier, optional
	NamesPath string
	// XRefPath is the cross reference sidecar of a block cached tier, optional
	XRefPath string
	// Resident tiers are loaded whole into the cell index. Other tiers are
	// read on demand through the block cache.
	Resident bool
	// TriggerMag is the magnitude limit a block cached tier starts to
	// contribute beyond.
	TriggerMag float64
}

// Tier is the state of a configured tier.
type Tier struct {
	Config    TierConfig
	Header    catalog.Header
	Available bool
	// Err says why the tier is unavailable
	Err error
	// Records is the number of records loaded into the cell index
	Records int

	reader  *catalog.TierReader
	cacheID blockcache.TierID
	xref    *catalog.XRefIndex
}

// HasCrossReference reports whether records of a block cached tier can be
// found by cross reference id.
func (t Tier) HasCrossReference() bool { return t.xref != nil }

// Index is the star catalog index. It is created once by the application and
// passed to whatever renders or queries the sky. An Index has a single owner
// and is not safe for concurrent use: queries update cached apparent
// positions and the block cache.
type Index struct {
	log   Logger
	opts  Options
	mesh  mesh.Mesh
	tiers []*Tier
	// deep holds the block cached tiers in ascending faintness
	deep  []*Tier
	cache *blockcache.Cache

	stars    []Star
	cells    CellIndex
	movers   FastMovers
	names    map[string]StarID
	altNames map[string]StarID
	xrefs    map[uint32]StarID
	named    []StarID

	// epoch is when the last full reindex filed every star
	epoch Epoch
	// lastReindex is when the fast movers were last refiled
	lastReindex Epoch
	token       uint64
	interval    float64
	viewLimit   float64

	// maxSlowPM and maxFastPM are the largest proper motions outside and
	// inside the motion bands
	maxSlowPM float64
	maxFastPM float64
}

// Open loads the resident tiers and opens the block cached ones. A tier that
// cannot be used is logged and left unavailable, it never fails Open. Errors
// are returned only for an unusable configuration.
func Open(ctx context.Context, log Logger, m mesh.Mesh, tiers []TierConfig, opts ...Option) (*Index, error) {
	o := NewOptions(opts...)

	seen := map[string]bool{}
	for _, cfg := range tiers {
		if cfg.Name == "" || seen[cfg.Name] {
			return nil, fmt.Errorf("%w: %q", ErrTierName, cfg.Name)
		}
		seen[cfg.Name] = true
	}

	cache, err := blockcache.New(log, o.CacheOptions...)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		log:         log,
		opts:        o,
		mesh:        m,
		cache:       cache,
		cells:       newCellIndex(m.Size()),
		movers:      newFastMovers(o.BandCutoffs, o.Epoch),
		names:       make(map[string]StarID),
		altNames:    make(map[string]StarID),
		xrefs:       make(map[uint32]StarID),
		epoch:       o.Epoch,
		lastReindex: o.Epoch,
		viewLimit:   math.Inf(1),
	}

	p := ix.Pass(o.Epoch)
	for _, cfg := range tiers {
		t := &Tier{Config: cfg}
		ix.tiers = append(ix.tiers, t)
		if err := ix.loadTier(ctx, t, p); err != nil {
			ix.fail(t, err)
			continue
		}
		t.Available = true
		if !cfg.Resident {
			ix.deep = append(ix.deep, t)
		}
	}
	slices.SortStableFunc(ix.deep, func(a, b *Tier) int {
		return cmp.Compare(a.Header.FaintMag, b.Header.FaintMag)
	})
	ix.computeInterval()

	ix.log.Infof("star index: %d resident stars, %d fast movers, %d block cached tiers, reindex interval %.1f years",
		len(ix.stars), ix.movers.Len(), len(ix.deep), ix.interval)
	return ix, nil
}

// Close releases the tier files.
func (ix *Index) Close() error {
	var first error
	for _, t := range ix.tiers {
		if t.reader == nil {
			continue
		}
		if err := t.reader.Close(); err != nil && first == nil {
			first = err
		}
		t.reader = nil
	}
	return first
}

// Pass starts a query or render pass at epoch e.
func (ix *Index) Pass(e Epoch) Pass {
	ix.token++
	return Pass{Epoch: e, Token: ix.token}
}

func (ix *Index) Mesh() mesh.Mesh { return ix.mesh }

// Epoch returns the epoch of the last full reindex.
func (ix *Index) Epoch() Epoch { return ix.epoch }

// Len returns the number of resident stars.
func (ix *Index) Len() int { return len(ix.stars) }

func (ix *Index) Cache() *blockcache.Cache { return ix.cache }

// Cells returns the cell index. It must not be modified.
func (ix *Index) Cells() *CellIndex { return &ix.cells }

func (ix *Index) FastMovers() []Band { return ix.movers.Bands() }

// Tiers returns a snapshot of every configured tier, in configuration order.
func (ix *Index) Tiers() []Tier {
	out := make([]Tier, len(ix.tiers))
	for i, t := range ix.tiers {
		out[i] = *t
	}
	return out
}

func (ix *Index) tier(name string) *Tier {
	for _, t := range ix.tiers {
		if t.Config.Name == name {
			return t
		}
	}
	return nil
}

// fail marks t unavailable. Only the first failure of a tier is logged.
func (ix *Index) fail(t *Tier, err error) {
	if t.Err != nil {
		return
	}
	te := tierError(t.Config.Name, err)
	t.Err = te
	t.Available = false
	ix.log.Infof("%v, tier unavailable", te)
}

func (ix *Index) integrity(format string, args ...any) {
	ix.log.Infof("integrity: "+format, args...)
}

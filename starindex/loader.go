package starindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func tierError(tier string, err error) *TierError {
	var te *TierError
	if errors.As(err, &te) {
		return te
	}
	kind := KindFormat
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		kind = KindIO
	}
	return &TierError{Tier: tier, Kind: kind, Err: err}
}

func trixelsAtDepth(depth uint8) uint32 {
	return mesh.RootCount << (2 * uint32(depth))
}

func (ix *Index) loadTier(ctx context.Context, t *Tier, p Pass) error {
	_, span := ix.opts.Tracer.Start(ctx, "starindex.loadTier", trace.WithAttributes(
		attribute.String("tier", t.Config.Name),
		attribute.Bool("resident", t.Config.Resident),
	))
	defer span.End()

	var err error
	if t.Config.Resident {
		err = ix.loadResident(t, p)
	} else {
		err = ix.openBlockCached(t)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.Int("records", t.Records),
		attribute.Float64("faint_mag", t.Header.FaintMag),
	)
	return nil
}

// loadResident reads every record of t into the cell index. Nothing is added
// to the index unless the whole tier reads cleanly.
func (ix *Index) loadResident(t *Tier, p Pass) error {
	tr, err := catalog.OpenTierFile(t.Config.Path)
	if err != nil {
		return err
	}
	defer tr.Close()

	h := tr.Header()
	t.Header = h
	if h.TrixelCount != trixelsAtDepth(h.MeshDepth) {
		return fmt.Errorf("%w: %d trixels at depth %d", ErrTrixelCount, h.TrixelCount, h.MeshDepth)
	}
	if h.MeshDepth != ix.mesh.Depth() {
		ix.integrity("tier %s was built at mesh depth %d, the index uses %d, cells are recomputed from positions",
			t.Config.Name, h.MeshDepth, ix.mesh.Depth())
	}

	var names *catalog.NameReader
	if t.Config.NamesPath != "" {
		f, err := os.Open(t.Config.NamesPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if names, err = catalog.NewNameReader(f); err != nil {
			return fmt.Errorf("name table: %w", err)
		}
	}

	loaded := make([]Star, 0, h.TotalRecords)
	var unordered, unnamed bool
	for trixel := range h.TrixelCount {
		n := tr.Count(trixel)
		if n == 0 {
			continue
		}
		recs, err := tr.Records(trixel, 0, n)
		if err != nil {
			return err
		}
		for i, r := range recs {
			if i > 0 && r.Mag < recs[i-1].Mag && !unordered {
				unordered = true
				ix.integrity("tier %s trixel %d is not in magnitude order", t.Config.Name, trixel)
			}
			var nm catalog.Names
			if r.HasName() && !unnamed {
				nm, err = nextName(names)
				if errors.Is(err, catalog.ErrNamesExhausted) {
					unnamed = true
					ix.integrity("tier %s has named records without name table entries, they load unnamed", t.Config.Name)
				} else if err != nil {
					return fmt.Errorf("name table: %w", err)
				}
			}
			loaded = append(loaded, newStar(r, t.Config.Name, nm))
		}
	}

	ix.commit(loaded, p)
	t.Records = len(loaded)
	return nil
}

func nextName(names *catalog.NameReader) (catalog.Names, error) {
	if names == nil {
		return catalog.Names{}, catalog.ErrNamesExhausted
	}
	return names.Next()
}

// commit assigns ids to stars and files them in the cell index, the motion
// bands and the lookup tables.
func (ix *Index) commit(stars []Star, p Pass) {
	touched := make([]bool, ix.cells.Size())
	for i := range stars {
		id := StarID(len(ix.stars))
		stars[i].ID = id
		ix.stars = append(ix.stars, stars[i])

		s := &ix.stars[id]
		s.cell = ix.mesh.CellOf(s.ApparentPosition(p))
		ix.cells.appendUnsorted(s.cell, id)
		touched[s.cell] = true

		pm := s.ProperMotion()
		if ix.movers.add(id, pm) {
			ix.maxFastPM = max(ix.maxFastPM, pm)
		} else {
			ix.maxSlowPM = max(ix.maxSlowPM, pm)
		}
		ix.register(id)
	}
	for cell, ok := range touched {
		if ok {
			ix.cells.sortCell(ix.stars, mesh.Trixel(cell))
		}
	}
}

// openBlockCached checks t can be addressed by trixel and registers it with
// the block cache. The tier file stays open until Close.
func (ix *Index) openBlockCached(t *Tier) error {
	tr, err := catalog.OpenTierFile(t.Config.Path)
	if err != nil {
		return err
	}
	h := tr.Header()
	t.Header = h
	if h.MeshDepth != ix.mesh.Depth() {
		tr.Close()
		return fmt.Errorf("%w: tier depth %d, index depth %d", ErrDepthMismatch, h.MeshDepth, ix.mesh.Depth())
	}
	if h.TrixelCount != uint32(ix.mesh.Size()) {
		tr.Close()
		return fmt.Errorf("%w: %d trixels at depth %d", ErrTrixelCount, h.TrixelCount, h.MeshDepth)
	}
	t.reader = tr
	t.cacheID = ix.cache.AddTier(t.Config.Name, tr)

	if t.Config.XRefPath != "" {
		x, err := catalog.LoadXRefIndex(t.Config.XRefPath)
		if err != nil {
			ix.log.Infof("tier %s: cross reference index unavailable: %v", t.Config.Name, err)
			return nil
		}
		t.xref = x
	}
	return nil
}

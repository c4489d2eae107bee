package starindex

import (
	"context"
	"fmt"
	"math"

	"github.com/forestrie/go-skyindex/mesh"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ReindexKind int

const (
	ReindexIncremental ReindexKind = iota
	ReindexFull
)

func (k ReindexKind) String() string {
	switch k {
	case ReindexIncremental:
		return "incremental"
	case ReindexFull:
		return "full"
	}
	return fmt.Sprintf("ReindexKind(%d)", int(k))
}

// computeInterval sets the years between full reindexes: the time a star
// moving at the slowest band cutoff takes to drift by the drift bound. Stars
// below every cutoff drift less than the bound in that time. Without bands
// the fastest resident star sets the pace.
func (ix *Index) computeInterval() {
	pm := ix.movers.Slowest()
	if pm == 0 {
		pm = ix.maxSlowPM
	}
	if pm == 0 {
		ix.interval = math.Inf(1)
		return
	}
	ix.interval = ix.opts.DriftBound * 1000 / pm
}

// ReindexInterval returns the years between full reindexes.
func (ix *Index) ReindexInterval() float64 { return ix.interval }

// Reindex brings cell membership up to date for the pass. When more than the
// reindex interval separates the pass from the last full reindex every star
// is refiled, otherwise only the fast movers are.
func (ix *Index) Reindex(ctx context.Context, p Pass) ReindexKind {
	if math.Abs(p.Epoch.YearsSince(ix.epoch)) > ix.interval {
		ix.FullReindex(ctx, p)
		return ReindexFull
	}
	ix.incrementalReindex(p)
	return ReindexIncremental
}

// FullReindex recomputes the apparent position of every resident star and
// rebuilds every cell. Repeating it for the same epoch changes nothing.
func (ix *Index) FullReindex(ctx context.Context, p Pass) {
	_, span := ix.opts.Tracer.Start(ctx, "starindex.FullReindex", trace.WithAttributes(
		attribute.Float64("epoch_year", p.Epoch.Year()),
		attribute.Int("stars", len(ix.stars)),
	))
	defer span.End()

	cells := newCellIndex(ix.mesh.Size())
	moved := 0
	for i := range ix.stars {
		s := &ix.stars[i]
		cell := ix.mesh.CellOf(s.ApparentPosition(p))
		if cell != s.cell {
			moved++
		}
		s.cell = cell
		cells.appendUnsorted(cell, StarID(i))
	}
	for cell := range cells.cells {
		cells.sortCell(ix.stars, mesh.Trixel(cell))
	}
	ix.cells = cells
	ix.epoch = p.Epoch
	ix.lastReindex = p.Epoch
	ix.movers.markIndexed(p.Epoch)

	span.SetAttributes(attribute.Int("moved", moved))
	ix.log.Debugf("full reindex at %.2f: %d of %d stars changed cell", p.Epoch.Year(), moved, len(ix.stars))
}

// incrementalReindex refiles the members of every band whose cell changed.
func (ix *Index) incrementalReindex(p Pass) int {
	moved := 0
	for b := range ix.movers.bands {
		band := &ix.movers.bands[b]
		for _, id := range band.Members {
			s := &ix.stars[id]
			cell := ix.mesh.CellOf(s.ApparentPosition(p))
			if cell == s.cell {
				continue
			}
			if !ix.cells.remove(ix.stars, s.cell, id) {
				ix.integrity("star %d was not filed under trixel %d", id, s.cell)
			}
			s.cell = cell
			ix.cells.insert(ix.stars, cell, id)
			moved++
		}
		band.Indexed = p.Epoch
	}
	ix.lastReindex = p.Epoch
	if moved > 0 {
		ix.log.Debugf("incremental reindex at %.2f: %d fast movers changed cell", p.Epoch.Year(), moved)
	}
	return moved
}

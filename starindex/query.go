package starindex

import (
	"iter"
	"math"

	"github.com/forestrie/go-skyindex/blockcache"
	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
)

// Viewport is the visible cap of sky. Radius is in degrees.
type Viewport struct {
	Center mesh.SkyPoint
	Radius float64
}

// baseSlack bounds, in degrees, how far a resident star may be at epoch e
// from the position it was filed by. Stars outside the bands were filed at
// the last full reindex, band members at the last reindex of any kind.
func (ix *Index) baseSlack(e Epoch) float64 {
	return max(
		driftDegrees(ix.maxSlowPM, e.YearsSince(ix.epoch)),
		driftDegrees(ix.maxFastPM, e.YearsSince(ix.lastReindex)),
	)
}

// tierSlack is baseSlack for a block cached tier, whose records are filed by
// their J2000 position.
func tierSlack(t *Tier, e Epoch) float64 {
	return driftDegrees(t.Header.MaxProperMotion, e.YearsSince(J2000))
}

// RegionScan yields every star no fainter than magLimit whose apparent
// position is within the viewport. Resident stars come first, cell by cell in
// ascending trixel order and brightest first within a cell. Each block cached
// tier whose trigger magnitude is brighter than magLimit follows, in ascending
// faintness, with its records read through the block cache. The sequence may
// be ranged over again, each time reflecting the index as it is then.
func (ix *Index) RegionScan(p Pass, vp Viewport, magLimit float64) iter.Seq[Star] {
	return func(yield func(Star) bool) {
		if vp.Radius < 0 {
			return
		}
		radius := vp.Radius + ix.opts.DrawBuffer + ix.baseSlack(p.Epoch)
		for cell := range ix.mesh.RegionCells(vp.Center, radius) {
			for _, id := range ix.cells.Cell(cell) {
				s := &ix.stars[id]
				if s.Mag > magLimit {
					break
				}
				if mesh.AngularDistance(s.ApparentPosition(p), vp.Center) > vp.Radius {
					continue
				}
				if !yield(*s) {
					return
				}
			}
		}
		for _, t := range ix.deep {
			if !t.Available || magLimit <= t.Config.TriggerMag {
				continue
			}
			if !ix.scanTier(t, p, vp, magLimit, yield) {
				return
			}
		}
	}
}

func (ix *Index) scanTier(t *Tier, p Pass, vp Viewport, magLimit float64, yield func(Star) bool) bool {
	radius := vp.Radius + ix.opts.DrawBuffer + tierSlack(t, p.Epoch)
	for cell := range ix.mesh.RegionCells(vp.Center, radius) {
		view, err := ix.cache.Ensure(blockcache.Key{Tier: t.cacheID, Trixel: uint32(cell)}, magLimit)
		if err != nil {
			ix.fail(t, err)
			return true
		}
		if !view.Complete() {
			ix.log.Debugf("tier %s trixel %d: cache budget reached, showing resident records only", t.Config.Name, cell)
		}
		for r := range view.All() {
			s := newStar(r, t.Config.Name, catalog.Names{})
			if mesh.AngularDistance(s.ApparentPosition(p), vp.Center) > vp.Radius {
				continue
			}
			if !yield(s) {
				return false
			}
		}
	}
	return true
}

// nearest tracks the best candidate of a nearest object search. The first
// candidate may lie exactly on the search radius, later ones must be strictly
// closer.
type nearest struct {
	star  Star
	dist  float64
	found bool
}

func (n *nearest) offer(s Star, d float64) {
	if d < n.dist || (!n.found && d <= n.dist) {
		n.star, n.dist, n.found = s, d, true
	}
}

// NearestObject returns the star closest to point within maxRadius degrees,
// and its distance. Stars fainter than the magnitude limit set with
// SetMagnitudeLimit are ignored. The resident stars are searched first, then
// every block cached tier the limit reaches, each bounded by the best distance
// found so far.
func (ix *Index) NearestObject(p Pass, point mesh.SkyPoint, maxRadius float64) (Star, float64, bool) {
	if maxRadius < 0 {
		return Star{}, 0, false
	}
	best := nearest{dist: maxRadius}

	slack := ix.baseSlack(p.Epoch)
	for cell := range ix.mesh.RegionCells(point, maxRadius+ix.opts.SearchBuffer+slack) {
		if d, err := ix.mesh.MinDistance(cell, point); err != nil || d > best.dist+slack {
			continue
		}
		for _, id := range ix.cells.Cell(cell) {
			s := &ix.stars[id]
			if s.Mag > ix.viewLimit {
				break
			}
			best.offer(*s, mesh.AngularDistance(s.ApparentPosition(p), point))
		}
	}

	for _, t := range ix.deep {
		if !t.Available || ix.viewLimit <= t.Config.TriggerMag {
			continue
		}
		ix.nearestInTier(t, p, point, &best)
	}
	if !best.found {
		return Star{}, 0, false
	}
	return best.star, best.dist, true
}

func (ix *Index) nearestInTier(t *Tier, p Pass, point mesh.SkyPoint, best *nearest) {
	limit := math.Min(ix.viewLimit, t.Header.FaintMag)
	slack := tierSlack(t, p.Epoch)
	for cell := range ix.mesh.RegionCells(point, best.dist+ix.opts.SearchBuffer+slack) {
		if d, err := ix.mesh.MinDistance(cell, point); err != nil || d > best.dist+slack {
			continue
		}
		view, err := ix.cache.Ensure(blockcache.Key{Tier: t.cacheID, Trixel: uint32(cell)}, limit)
		if err != nil {
			ix.fail(t, err)
			return
		}
		for r := range view.All() {
			s := newStar(r, t.Config.Name, catalog.Names{})
			best.offer(s, mesh.AngularDistance(s.ApparentPosition(p), point))
		}
	}
}

// NamedInRegion yields the resident stars with a long or alternate name whose
// apparent position is within the viewport, in StarID order.
func (ix *Index) NamedInRegion(p Pass, vp Viewport) iter.Seq[Star] {
	return func(yield func(Star) bool) {
		for _, id := range ix.named {
			s := &ix.stars[id]
			if mesh.AngularDistance(s.ApparentPosition(p), vp.Center) > vp.Radius {
				continue
			}
			if !yield(*s) {
				return
			}
		}
	}
}

// SetMagnitudeLimit sets the faintest magnitude NearestObject considers,
// normally the current ZoomMagnitudeLimit. +Inf removes the limit.
func (ix *Index) SetMagnitudeLimit(mag float64) {
	ix.viewLimit = mag
}

func (ix *Index) MagnitudeLimit() float64 { return ix.viewLimit }

// ZoomMagnitudeLimit returns the faintest magnitude worth drawing at a zoom
// ratio for a target star density: a*log10(zoomRatio) + b*log10(density) + c,
// never fainter than FaintestAvailableMagnitude. Non positive inputs count as
// one.
func (ix *Index) ZoomMagnitudeLimit(zoomRatio, targetDensity float64) float64 {
	lz, ld := 0.0, 0.0
	if zoomRatio > 0 {
		lz = math.Log10(zoomRatio)
	}
	if targetDensity > 0 {
		ld = math.Log10(targetDensity)
	}
	m := ix.opts.ZoomA*lz + ix.opts.ZoomB*ld + ix.opts.ZoomC
	return math.Min(m, ix.FaintestAvailableMagnitude())
}

// FaintestAvailableMagnitude returns the faint bound of the faintest available
// tier, or zero when no tier is available.
func (ix *Index) FaintestAvailableMagnitude() float64 {
	faint, found := 0.0, false
	for _, t := range ix.tiers {
		if !t.Available {
			continue
		}
		if !found || t.Header.FaintMag > faint {
			faint, found = t.Header.FaintMag, true
		}
	}
	return faint
}

package starindex

import (
	"errors"
	"strings"

	"github.com/forestrie/go-skyindex/catalog"
)

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// register adds a resident star to the lookup tables. The first star to claim
// a name or cross reference id keeps it.
func (ix *Index) register(id StarID) {
	s := &ix.stars[id]
	if s.Name != "" {
		if _, ok := ix.names[foldName(s.Name)]; !ok {
			ix.names[foldName(s.Name)] = id
		}
	}
	if s.AltName != "" {
		if _, ok := ix.altNames[s.AltName]; !ok {
			ix.altNames[s.AltName] = id
		}
		if _, ok := ix.names[foldName(s.AltName)]; !ok {
			ix.names[foldName(s.AltName)] = id
		}
	}
	if s.HasName() {
		ix.named = append(ix.named, id)
	}
	if s.XRef != 0 {
		if _, ok := ix.xrefs[s.XRef]; !ok {
			ix.xrefs[s.XRef] = id
		}
	}
}

func (ix *Index) ByID(id StarID) (Star, bool) {
	if int(id) >= len(ix.stars) {
		return Star{}, false
	}
	return ix.stars[id], true
}

// ByName finds a resident star by long or alternate name, ignoring case.
func (ix *Index) ByName(name string) (Star, bool) {
	id, ok := ix.names[foldName(name)]
	if !ok {
		return Star{}, false
	}
	return ix.stars[id], true
}

// ByAlternateName finds a resident star by its exact alternate name.
func (ix *Index) ByAlternateName(name string) (Star, bool) {
	id, ok := ix.altNames[name]
	if !ok {
		return Star{}, false
	}
	return ix.stars[id], true
}

// ByCrossReferenceID looks in the resident stars first and then in each block
// cached tier that has a cross reference sidecar. A record found in a block
// cached tier is read directly from the tier file and is not added to the
// index or the cache.
func (ix *Index) ByCrossReferenceID(xref uint32) (Star, bool) {
	if xref == 0 {
		return Star{}, false
	}
	if id, ok := ix.xrefs[xref]; ok {
		return ix.stars[id], true
	}
	for _, t := range ix.deep {
		if !t.Available || t.xref == nil {
			continue
		}
		pos, err := t.xref.Lookup(xref)
		if errors.Is(err, catalog.ErrXRefNotFound) {
			continue
		}
		r, err := t.reader.Record(pos.Trixel, pos.Index)
		if err != nil {
			if errors.Is(err, catalog.ErrTrixelRange) || errors.Is(err, catalog.ErrRecordRange) {
				ix.integrity("tier %s cross reference %d points outside the tier", t.Config.Name, xref)
				continue
			}
			ix.fail(t, err)
			continue
		}
		if r.XRef != xref {
			ix.integrity("tier %s cross reference %d points at a record with id %d", t.Config.Name, xref, r.XRef)
			continue
		}
		return newStar(r, t.Config.Name, catalog.Names{}), true
	}
	return Star{}, false
}

// BuildCrossReference scans the named block cached tier, attaches the
// resulting sidecar to it and returns it so it can be saved.
func (ix *Index) BuildCrossReference(tier string) (*catalog.XRefIndex, error) {
	t := ix.tier(tier)
	if t == nil {
		return nil, ErrUnknownTier
	}
	if t.Config.Resident || t.reader == nil || !t.Available {
		return nil, ErrNotBlockCached
	}
	x, err := catalog.BuildXRefIndex(tier, t.reader)
	if err != nil {
		return nil, err
	}
	t.xref = x
	return x, nil
}

package starindex

// Band holds the resident stars whose proper motion exceeds Cutoff but not
// the cutoff of any faster band.
type Band struct {
	// Cutoff is in mas/yr
	Cutoff  float64
	Members []StarID
	// Indexed is the epoch the members were last refiled at
	Indexed Epoch
}

// FastMovers is the set of motion bands, fastest first. Only their members
// are refiled by an incremental reindex.
type FastMovers struct {
	bands []Band
}

func newFastMovers(cutoffs []float64, e Epoch) FastMovers {
	f := FastMovers{bands: make([]Band, len(cutoffs))}
	for i, c := range cutoffs {
		f.bands[i] = Band{Cutoff: c, Indexed: e}
	}
	return f
}

// classify returns the first band whose cutoff pm exceeds, or -1.
func (f *FastMovers) classify(pm float64) int {
	for i := range f.bands {
		if pm > f.bands[i].Cutoff {
			return i
		}
	}
	return -1
}

func (f *FastMovers) add(id StarID, pm float64) bool {
	i := f.classify(pm)
	if i < 0 {
		return false
	}
	f.bands[i].Members = append(f.bands[i].Members, id)
	return true
}

func (f *FastMovers) markIndexed(e Epoch) {
	for i := range f.bands {
		f.bands[i].Indexed = e
	}
}

// Slowest returns the smallest cutoff, zero when there are no bands.
func (f *FastMovers) Slowest() float64 {
	if len(f.bands) == 0 {
		return 0
	}
	return f.bands[len(f.bands)-1].Cutoff
}

func (f *FastMovers) Len() int {
	n := 0
	for _, b := range f.bands {
		n += len(b.Members)
	}
	return n
}

// Bands returns a copy of the bands.
func (f *FastMovers) Bands() []Band {
	out := make([]Band, len(f.bands))
	for i, b := range f.bands {
		out[i] = b
		out[i].Members = append([]StarID(nil), b.Members...)
	}
	return out
}

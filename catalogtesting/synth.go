package catalogtesting

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
)

// StarSpec is a star to be written to a synthetic tier, in natural units.
type StarSpec struct {
	RA       float64
	Dec      float64
	PMRA     float64
	PMDec    float64
	Parallax float64
	Mag      float64
	BV       float64
	XRef     uint32
	Name     string
	AltName  string
}

func (s StarSpec) record() catalog.Record {
	r := catalog.NewRecord(s.RA, s.Dec, s.PMRA, s.PMDec, s.Parallax, s.Mag, s.BV)
	r.XRef = s.XRef
	return r
}

// Generator produces reproducible random stars. The same seed always gives
// the same catalog.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Point returns a position uniformly distributed on the sphere.
func (g *Generator) Point() (ra, dec float64) {
	ra = g.rng.Float64() * 360
	dec = math.Asin(2*g.rng.Float64()-1) * 180 / math.Pi
	return ra, dec
}

// Stars returns n stars spread over the sky with magnitudes uniform in
// [magMin, magMax) and proper motions below maxPM mas/yr.
func (g *Generator) Stars(n int, magMin, magMax, maxPM float64) []StarSpec {
	stars := make([]StarSpec, n)
	for i := range stars {
		ra, dec := g.Point()
		pm := g.rng.Float64() * maxPM
		angle := g.rng.Float64() * 2 * math.Pi
		stars[i] = StarSpec{
			RA:       ra,
			Dec:      dec,
			PMRA:     pm * math.Cos(angle),
			PMDec:    pm * math.Sin(angle),
			Parallax: g.rng.Float64() * 50,
			Mag:      magMin + g.rng.Float64()*(magMax-magMin),
			BV:       g.rng.Float64()*2 - 0.3,
		}
	}
	return stars
}

// Name gives every k'th star a long and an alternate name.
func Name(stars []StarSpec, k int) {
	for i := 0; i < len(stars); i += k {
		stars[i].Name = fmt.Sprintf("Star %d", i)
		stars[i].AltName = fmt.Sprintf("s%d", i)
	}
}

// Number gives every star a cross reference id, counting from first.
func Number(stars []StarSpec, first uint32) {
	for i := range stars {
		stars[i].XRef = first + uint32(i)
	}
}

// TierFiles are the files of a written tier.
type TierFiles struct {
	Name      string
	Path      string
	NamesPath string
	Header    catalog.Header
}

// WriteTier files stars by the trixel of their stored J2000 position and
// writes them, with a name table when any star is named, to dir.
func WriteTier(dir, name string, m mesh.Mesh, order binary.ByteOrder, stars []StarSpec) (TierFiles, error) {
	buckets := make([][]catalog.Entry, m.Size())
	named := false
	for _, s := range stars {
		r := s.record()
		cell := m.CellOf(mesh.NewSkyPoint(r.RADeg(), r.DecDeg()))
		e := catalog.Entry{Record: r}
		if s.Name != "" || s.AltName != "" {
			e.Names = &catalog.Names{Long: s.Name, Alt: s.AltName}
			named = true
		}
		buckets[cell] = append(buckets[cell], e)
	}

	files := TierFiles{Name: name, Path: filepath.Join(dir, name+".skyc")}
	data, err := os.Create(files.Path)
	if err != nil {
		return TierFiles{}, err
	}
	defer data.Close()

	var names *os.File
	if named {
		files.NamesPath = filepath.Join(dir, name+".names")
		if names, err = os.Create(files.NamesPath); err != nil {
			return TierFiles{}, err
		}
		defer names.Close()
	}

	spec := catalog.TierSpec{Order: order, MeshDepth: m.Depth()}
	if names == nil {
		files.Header, err = catalog.WriteTier(data, nil, spec, buckets)
	} else {
		files.Header, err = catalog.WriteTier(data, names, spec, buckets)
	}
	if err != nil {
		return TierFiles{}, err
	}
	if names != nil {
		if err := names.Close(); err != nil {
			return TierFiles{}, err
		}
	}
	return files, data.Close()
}

package starindex

import (
	"math"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/mesh"
)

// StarID addresses a record of the resident tiers.
type StarID uint32

// NoStar is the id of records served from block cached tiers.
const NoStar = ^StarID(0)

const (
	// masPerRadian converts proper motion in mas/yr to radians per year
	masPerRadian = 180 * 3600 * 1000 / math.Pi
	masPerDegree = 3600 * 1000
)

// Object is the capability a renderer or query needs from a point on the
// sky. *Star implements it.
type Object interface {
	Magnitude() float64
	// ProperMotion is the total proper motion in mas/yr
	ProperMotion() float64
	ApparentPosition(p Pass) mesh.SkyPoint
}

// Star is a decoded catalog record. Positions are J2000 degrees, proper
// motion is mas/yr with the RA component already scaled by cos(dec).
type Star struct {
	ID   StarID
	Tier string

	RA       float64
	Dec      float64
	PMRA     float64
	PMDec    float64
	Parallax float64
	Mag      float64
	BV       float64
	XRef     uint32
	SpType   byte

	Name    string
	AltName string

	// cell is the trixel the star is filed under in the cell index
	cell     mesh.Trixel
	apparent mesh.SkyPoint
	token    uint64
}

var _ Object = (*Star)(nil)

func newStar(r catalog.Record, tier string, names catalog.Names) Star {
	return Star{
		ID:       NoStar,
		Tier:     tier,
		RA:       r.RADeg(),
		Dec:      r.DecDeg(),
		PMRA:     r.PMRAMas(),
		PMDec:    r.PMDecMas(),
		Parallax: r.ParallaxMas(),
		Mag:      r.Magnitude(),
		BV:       r.ColorIndex(),
		XRef:     r.XRef,
		SpType:   r.SpType,
		Name:     names.Long,
		AltName:  names.Alt,
	}
}

func (s Star) Magnitude() float64 { return s.Mag }

func (s Star) ProperMotion() float64 { return math.Hypot(s.PMRA, s.PMDec) }

func (s Star) HasName() bool { return s.Name != "" || s.AltName != "" }

// Reference returns the catalog position.
func (s Star) Reference() mesh.SkyPoint { return mesh.NewSkyPoint(s.RA, s.Dec) }

// Cell returns the trixel the star is filed under. It is only meaningful for
// stars returned by the resident index.
func (s Star) Cell() mesh.Trixel { return s.cell }

// ApparentPosition returns the position at the pass epoch, computing it at
// most once per pass token.
func (s *Star) ApparentPosition(p Pass) mesh.SkyPoint {
	if p.Token != 0 && s.token == p.Token {
		return s.apparent
	}
	s.apparent = s.PositionAt(p.Epoch)
	s.token = p.Token
	return s.apparent
}

// PositionAt applies proper motion from J2000 to e. The motion is applied
// along the tangent plane and projected back to the sphere, which stays well
// defined at the poles.
func (s Star) PositionAt(e Epoch) mesh.SkyPoint {
	years := e.YearsSince(J2000)
	if years == 0 || (s.PMRA == 0 && s.PMDec == 0) {
		return s.Reference()
	}
	ra := s.RA * math.Pi / 180
	dec := s.Dec * math.Pi / 180
	sinRA, cosRA := math.Sincos(ra)
	sinDec, cosDec := math.Sincos(dec)

	p0 := mesh.Vec3{X: cosDec * cosRA, Y: cosDec * sinRA, Z: sinDec}
	east := mesh.Vec3{X: -sinRA, Y: cosRA}
	north := mesh.Vec3{X: -sinDec * cosRA, Y: -sinDec * sinRA, Z: cosDec}

	k := years / masPerRadian
	v := p0.Add(east.Scale(s.PMRA * k)).Add(north.Scale(s.PMDec * k))
	return mesh.SkyPointOf(v)
}

// driftDegrees is the furthest a star moving at pm mas/yr can travel in the
// given years.
func driftDegrees(pm, years float64) float64 {
	return pm * math.Abs(years) / masPerDegree
}

package mesh

import (
	"errors"
	"iter"
)

// Trixel identifies a leaf triangle of the mesh. See doc.go for the numbering.
type Trixel uint32

const (
	// RootCount is the number of root triangles
	RootCount = 8
	// MaxDepth bounds the mesh so that trixel ids fit comfortably in 32 bits.
	MaxDepth = 12

	// containsEpsilon absorbs rounding on shared triangle edges.
	containsEpsilon = 1e-12
	// capEpsilon pads cap intersection tests in degrees.
	capEpsilon = 1e-9
)

var (
	ErrDepthRange     = errors.New("mesh: depth out of range")
	ErrTrixelRange    = errors.New("mesh: trixel id out of range for the mesh depth")
	ErrRadiusNegative = errors.New("mesh: radius must not be negative")
)

var (
	v0 = Vec3{0, 0, 1}
	v1 = Vec3{1, 0, 0}
	v2 = Vec3{0, 1, 0}
	v3 = Vec3{-1, 0, 0}
	v4 = Vec3{0, -1, 0}
	v5 = Vec3{0, 0, -1}

	roots = [RootCount]Triangle{
		{v1, v5, v2}, // S0
		{v2, v5, v3}, // S1
		{v3, v5, v4}, // S2
		{v4, v5, v1}, // S3
		{v1, v0, v4}, // N0
		{v4, v0, v3}, // N1
		{v3, v0, v2}, // N2
		{v2, v0, v1}, // N3
	}
)

// Triangle is a spherical triangle given by its counter clockwise vertices.
type Triangle [3]Vec3

// Children returns the 4 sub triangles in numbering order.
func (t Triangle) Children() [4]Triangle {
	a, b, c := t[0], t[1], t[2]
	w0 := b.Add(c).Unit()
	w1 := a.Add(c).Unit()
	w2 := a.Add(b).Unit()
	return [4]Triangle{
		{a, w2, w1},
		{b, w0, w2},
		{c, w1, w0},
		{w0, w1, w2},
	}
}

// Contains reports whether the unit vector p is inside or on the edge of t.
func (t Triangle) Contains(p Vec3) bool {
	return t[0].Cross(t[1]).Dot(p) >= -containsEpsilon &&
		t[1].Cross(t[2]).Dot(p) >= -containsEpsilon &&
		t[2].Cross(t[0]).Dot(p) >= -containsEpsilon
}

// Center is the normalised vertex sum.
func (t Triangle) Center() Vec3 {
	return t[0].Add(t[1]).Add(t[2]).Unit()
}

// BoundingRadius returns the radius in degrees of the smallest cap centred on
// Center that holds all three vertices.
func (t Triangle) BoundingRadius() float64 {
	c := t.Center()
	r := c.Angle(t[0])
	if a := c.Angle(t[1]); a > r {
		r = a
	}
	if a := c.Angle(t[2]); a > r {
		r = a
	}
	return r
}

// Mesh is a hierarchical triangular mesh at a fixed depth. It is an immutable
// value and safe to share.
type Mesh struct {
	depth uint8
}

func New(depth uint8) (Mesh, error) {
	if depth > MaxDepth {
		return Mesh{}, ErrDepthRange
	}
	return Mesh{depth: depth}, nil
}

func (m Mesh) Depth() uint8 { return m.depth }

// Size returns the number of trixels, 8 * 4^depth
func (m Mesh) Size() int {
	return RootCount << (2 * uint(m.depth))
}

// CellOf returns the trixel containing p. The same point always maps to the
// same trixel.
func (m Mesh) CellOf(p SkyPoint) Trixel {
	return m.CellOfVec(p.Vec())
}

// CellOfVec is CellOf for a unit vector.
func (m Mesh) CellOfVec(v Vec3) Trixel {
	root := pick(roots[:], v)
	id := Trixel(root)
	t := roots[root]
	for level := uint8(0); level < m.depth; level++ {
		children := t.Children()
		i := pick(children[:], v)
		id = id<<2 | Trixel(i)
		t = children[i]
	}
	return id
}

// pick returns the first triangle containing v. If rounding leaves v outside
// all of them the triangle with the nearest centre is used.
func pick(ts []Triangle, v Vec3) int {
	for i := range ts {
		if ts[i].Contains(v) {
			return i
		}
	}
	best, bestDot := 0, -2.0
	for i := range ts {
		if d := ts[i].Center().Dot(v); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}

// Triangle returns the vertices of trixel t.
func (m Mesh) Triangle(t Trixel) (Triangle, error) {
	if int(t) >= m.Size() {
		return Triangle{}, ErrTrixelRange
	}
	shift := 2 * uint(m.depth)
	tri := roots[t>>shift]
	for level := int(m.depth) - 1; level >= 0; level-- {
		digit := (t >> (2 * uint(level))) & 3
		tri = tri.Children()[digit]
	}
	return tri, nil
}

// Center returns the centre point of trixel t.
func (m Mesh) Center(t Trixel) (SkyPoint, error) {
	tri, err := m.Triangle(t)
	if err != nil {
		return SkyPoint{}, err
	}
	return SkyPointOf(tri.Center()), nil
}

// MinDistance returns a lower bound, in degrees, on the distance from p to
// any point of trixel t.
func (m Mesh) MinDistance(t Trixel, p SkyPoint) (float64, error) {
	tri, err := m.Triangle(t)
	if err != nil {
		return 0, err
	}
	return max(0, tri.Center().Angle(p.Vec())-tri.BoundingRadius()), nil
}

// RegionCells returns, in ascending id order, every trixel whose bounding cap
// intersects the cap of the given radius (degrees) around center. The
// sequence is finite and may be ranged over any number of times.
func (m Mesh) RegionCells(center SkyPoint, radius float64) iter.Seq[Trixel] {
	c := center.Vec()
	return func(yield func(Trixel) bool) {
		if radius < 0 {
			return
		}
		for i := range roots {
			if !m.regionWalk(roots[i], Trixel(i), 0, c, radius, yield) {
				return
			}
		}
	}
}

func (m Mesh) regionWalk(t Triangle, id Trixel, level uint8, c Vec3, radius float64, yield func(Trixel) bool) bool {
	if t.Center().Angle(c) > radius+t.BoundingRadius()+capEpsilon {
		return true
	}
	if level == m.depth {
		return yield(id)
	}
	children := t.Children()
	for i := range children {
		if !m.regionWalk(children[i], id<<2|Trixel(i), level+1, c, radius, yield) {
			return false
		}
	}
	return true
}

// RegionCellList collects RegionCells into a slice.
func (m Mesh) RegionCellList(center SkyPoint, radius float64) ([]Trixel, error) {
	if radius < 0 {
		return nil, ErrRadiusNegative
	}
	var cells []Trixel
	for t := range m.RegionCells(center, radius) {
		cells = append(cells, t)
	}
	return cells, nil
}

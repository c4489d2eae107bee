package mesh

import "math"

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Vec3 is a point on (or direction from the centre of) the unit sphere.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec3{v.X / n, v.Y / n, v.Z / n}
}

// Angle returns the angle in degrees between two unit vectors.
func (v Vec3) Angle(o Vec3) float64 {
	// atan2 of |cross| and dot is well conditioned for both tiny and near
	// antipodal separations, unlike acos of the dot product.
	return math.Atan2(v.Cross(o).Norm(), v.Dot(o)) * radToDeg
}

// SkyPoint is an equatorial position in degrees.
type SkyPoint struct {
	RA  float64
	Dec float64
}

// NewSkyPoint returns the point with RA wrapped to [0, 360) and Dec clamped
// to [-90, 90].
func NewSkyPoint(ra, dec float64) SkyPoint {
	ra = math.Mod(ra, 360.0)
	if ra < 0 {
		ra += 360.0
	}
	if dec > 90 {
		dec = 90
	}
	if dec < -90 {
		dec = -90
	}
	return SkyPoint{RA: ra, Dec: dec}
}

// Vec returns the unit vector for p.
func (p SkyPoint) Vec() Vec3 {
	ra := p.RA * degToRad
	dec := p.Dec * degToRad
	cd := math.Cos(dec)
	return Vec3{cd * math.Cos(ra), cd * math.Sin(ra), math.Sin(dec)}
}

// SkyPointOf returns the equatorial position of the unit vector v.
func SkyPointOf(v Vec3) SkyPoint {
	v = v.Unit()
	dec := math.Asin(math.Max(-1, math.Min(1, v.Z))) * radToDeg
	ra := math.Atan2(v.Y, v.X) * radToDeg
	return NewSkyPoint(ra, dec)
}

// AngularDistance returns the great circle separation of a and b in degrees.
func AngularDistance(a, b SkyPoint) float64 {
	return a.Vec().Angle(b.Vec())
}

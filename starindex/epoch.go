package starindex

// Epoch is a Julian date.
type Epoch float64

const (
	// J2000 is the reference epoch of every catalog position
	J2000 Epoch = 2451545.0

	daysPerJulianYear = 365.25
)

// EpochOfYear returns the Julian epoch of a decimal year, so that
// EpochOfYear(2000) is J2000.
func EpochOfYear(year float64) Epoch {
	return J2000 + Epoch((year-2000)*daysPerJulianYear)
}

// YearsSince returns the Julian years from ref to e, negative when e is
// earlier.
func (e Epoch) YearsSince(ref Epoch) float64 {
	return float64(e-ref) / daysPerJulianYear
}

// Year returns e as a decimal Julian year.
func (e Epoch) Year() float64 {
	return 2000 + e.YearsSince(J2000)
}

// Pass identifies one query or render pass. Every apparent position computed
// for a pass is cached against its Token, so within a pass each record is
// moved at most once. Passes should come from Index.Pass, which issues a
// fresh token per call. The zero token is never cached.
type Pass struct {
	Epoch Epoch
	Token uint64
}

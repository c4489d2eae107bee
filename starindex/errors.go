package starindex

import (
	"errors"
	"fmt"
)

var (
	ErrDepthMismatch  = errors.New("starindex: the tier was built for a different mesh depth")
	ErrTrixelCount    = errors.New("starindex: the tier trixel count does not match its mesh depth")
	ErrTierName       = errors.New("starindex: tiers need a unique non empty name")
	ErrUnknownTier    = errors.New("starindex: no tier has that name")
	ErrNotBlockCached = errors.New("starindex: the tier is not an available block cached tier")
)

// ErrorKind classifies why a tier could not be used.
type ErrorKind int

const (
	// KindIO is a missing or unreadable file
	KindIO ErrorKind = iota
	// KindFormat is a file that was read but could not be understood
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// TierError records why a tier is unavailable. The index keeps serving the
// remaining tiers.
type TierError struct {
	Tier string
	Kind ErrorKind
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("tier %s: %s error: %v", e.Tier, e.Kind, e.Err)
}

func (e *TierError) Unwrap() error { return e.Err }

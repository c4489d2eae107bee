package catalog

import "errors"

var (
	ErrHeaderTooShort     = errors.New("catalog: too few bytes for a tier header")
	ErrBadMagic           = errors.New("catalog: the file is not recognized as a star catalog tier")
	ErrBadByteOrderMarker = errors.New("catalog: the byte order marker is neither big nor little endian")
	ErrBadVersion         = errors.New("catalog: unsupported tier format version")
	ErrBadRecordSize      = errors.New("catalog: the record size in the header does not match this format")
	ErrCountsMismatch     = errors.New("catalog: the per trixel record counts do not sum to the total in the header")
	ErrTrixelRange        = errors.New("catalog: trixel is not covered by the tier")
	ErrRecordRange        = errors.New("catalog: record range exceeds the trixel's record count")
	ErrRecordTooShort     = errors.New("catalog: too few bytes to represent a record")
	ErrShortRead          = errors.New("catalog: the tier data ended before the expected number of bytes")
)

var (
	ErrNamesTooShort   = errors.New("catalog: too few bytes for a name table header")
	ErrNamesBadMagic   = errors.New("catalog: the file is not recognized as a name table")
	ErrNamesExhausted  = errors.New("catalog: more named records than name table entries")
	ErrNameTooLong     = errors.New("catalog: name exceeds the fixed field width")
	ErrNamesNotWritten = errors.New("catalog: named records were provided without a name table writer")
)

var (
	ErrXRefVersion  = errors.New("catalog: unsupported cross reference index version")
	ErrXRefNotFound = errors.New("catalog: cross reference id not in the index")
)

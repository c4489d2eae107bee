package catalog

import (
	"encoding/binary"
	"math"
)

const (
	RecordBytes = 32

	// Record layout, see doc.go
	RecordRAFirstByte       = 0
	RecordRAEnd             = 4
	RecordDecFirstByte      = 4
	RecordDecEnd            = 8
	RecordPMRAFirstByte     = 8
	RecordPMRAEnd           = 12
	RecordPMDecFirstByte    = 12
	RecordPMDecEnd          = 16
	RecordParallaxFirstByte = 16
	RecordParallaxEnd       = 20
	RecordMagFirstByte      = 20
	RecordMagEnd            = 22
	RecordBVFirstByte       = 22
	RecordBVEnd             = 24
	RecordXRefFirstByte     = 24
	RecordXRefEnd           = 28
	RecordFlagsByte         = 28
	RecordSpTypeByte        = 29

	// FlagHasName marks a record owning the next name table entry.
	FlagHasName = uint8(0x01)

	PositionScale = 1e6
	MotionScale   = 10.0
)

// Record is a catalog record exactly as stored, with fixed point fields.
type Record struct {
	RA       int32
	Dec      int32
	PMRA     int32
	PMDec    int32
	Parallax int32
	Mag      int16
	BV       int16
	XRef     uint32
	Flags    uint8
	SpType   byte
}

// NewRecord builds a Record from natural units: degrees, mas/yr, mas and
// magnitudes.
func NewRecord(ra, dec, pmRA, pmDec, parallax, mag, bv float64) Record {
	return Record{
		RA:       int32(math.Round(ra * PositionScale)),
		Dec:      int32(math.Round(dec * PositionScale)),
		PMRA:     int32(math.Round(pmRA * MotionScale)),
		PMDec:    int32(math.Round(pmDec * MotionScale)),
		Parallax: int32(math.Round(parallax * MotionScale)),
		Mag:      EncodeMag(mag),
		BV:       EncodeMag(bv),
	}
}

func (r Record) RADeg() float64 { return float64(r.RA) / PositionScale }
func (r Record) DecDeg() float64 { return float64(r.Dec) / PositionScale }
func (r Record) PMRAMas() float64 { return float64(r.PMRA) / MotionScale }
func (r Record) PMDecMas() float64 { return float64(r.PMDec) / MotionScale }
func (r Record) ParallaxMas() float64 { return float64(r.Parallax) / MotionScale }
func (r Record) Magnitude() float64 { return DecodeMag(r.Mag) }
func (r Record) ColorIndex() float64 { return DecodeMag(r.BV) }
func (r Record) HasName() bool { return r.Flags&FlagHasName != 0 }

// EncodeRecord writes r into b, which must hold RecordBytes.
func EncodeRecord(b []byte, order binary.ByteOrder, r Record) error {
	if len(b) < RecordBytes {
		return ErrRecordTooShort
	}
	order.PutUint32(b[RecordRAFirstByte:RecordRAEnd], uint32(r.RA))
	order.PutUint32(b[RecordDecFirstByte:RecordDecEnd], uint32(r.Dec))
	order.PutUint32(b[RecordPMRAFirstByte:RecordPMRAEnd], uint32(r.PMRA))
	order.PutUint32(b[RecordPMDecFirstByte:RecordPMDecEnd], uint32(r.PMDec))
	order.PutUint32(b[RecordParallaxFirstByte:RecordParallaxEnd], uint32(r.Parallax))
	order.PutUint16(b[RecordMagFirstByte:RecordMagEnd], uint16(r.Mag))
	order.PutUint16(b[RecordBVFirstByte:RecordBVEnd], uint16(r.BV))
	order.PutUint32(b[RecordXRefFirstByte:RecordXRefEnd], r.XRef)
	b[RecordFlagsByte] = r.Flags
	b[RecordSpTypeByte] = r.SpType
	clear(b[RecordSpTypeByte+1 : RecordBytes])
	return nil
}

// DecodeRecord reads a record stored in the given order.
func DecodeRecord(b []byte, order binary.ByteOrder) (Record, error) {
	if len(b) < RecordBytes {
		return Record{}, ErrRecordTooShort
	}
	return Record{
		RA:       int32(order.Uint32(b[RecordRAFirstByte:RecordRAEnd])),
		Dec:      int32(order.Uint32(b[RecordDecFirstByte:RecordDecEnd])),
		PMRA:     int32(order.Uint32(b[RecordPMRAFirstByte:RecordPMRAEnd])),
		PMDec:    int32(order.Uint32(b[RecordPMDecFirstByte:RecordPMDecEnd])),
		Parallax: int32(order.Uint32(b[RecordParallaxFirstByte:RecordParallaxEnd])),
		Mag:      int16(order.Uint16(b[RecordMagFirstByte:RecordMagEnd])),
		BV:       int16(order.Uint16(b[RecordBVFirstByte:RecordBVEnd])),
		XRef:     order.Uint32(b[RecordXRefFirstByte:RecordXRefEnd]),
		Flags:    b[RecordFlagsByte],
		SpType:   b[RecordSpTypeByte],
	}, nil
}

// SwapRecordBytes reverses, in place, every multi byte field of each record
// in data. It converts a run of records between big and little endian.
func SwapRecordBytes(data []byte) error {
	if len(data)%RecordBytes != 0 {
		return ErrRecordTooShort
	}
	for off := 0; off < len(data); off += RecordBytes {
		rec := data[off : off+RecordBytes]
		for first := RecordRAFirstByte; first < RecordMagFirstByte; first += 4 {
			swap32(rec[first : first+4])
		}
		swap16(rec[RecordMagFirstByte:RecordMagEnd])
		swap16(rec[RecordBVFirstByte:RecordBVEnd])
		swap32(rec[RecordXRefFirstByte:RecordXRefEnd])
	}
	return nil
}

func swap32(b []byte) {
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
}

func swap16(b []byte) {
	b[0], b[1] = b[1], b[0]
}

// NormalizeRecords converts raw records stored in the order of h to host
// order, in place.
func NormalizeRecords(h Header, data []byte) error {
	if !h.Swapped() {
		return nil
	}
	return SwapRecordBytes(data)
}

// DecodeRecords decodes a run of host order records.
func DecodeRecords(data []byte) ([]Record, error) {
	if len(data)%RecordBytes != 0 {
		return nil, ErrRecordTooShort
	}
	recs := make([]Record, 0, len(data)/RecordBytes)
	for off := 0; off < len(data); off += RecordBytes {
		r, err := DecodeRecord(data[off:off+RecordBytes], HostOrder)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, nil
}

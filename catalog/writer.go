package catalog

import (
	"bufio"
	"cmp"
	"encoding/binary"
	"io"
	"math"
	"slices"
)

// Entry is a record and, for named stars, its names. It is the unit handed to
// WriteTier.
type Entry struct {
	Record Record
	Names  *Names
}

// TierSpec controls how WriteTier lays out a tier.
type TierSpec struct {
	// Order defaults to little endian
	Order     binary.ByteOrder
	MeshDepth uint8
	// FaintMag overrides the faint bound derived from the records when set
	FaintMag float64
}

// WriteTier writes buckets, indexed by trixel, as a tier file to w. The
// entries of each bucket are written in ascending magnitude order. Named
// entries have their names written, in the same order, to names.
func WriteTier(w io.Writer, names io.Writer, spec TierSpec, buckets [][]Entry) (Header, error) {
	order := spec.Order
	if order == nil {
		order = binary.LittleEndian
	}

	h := Header{
		Order:       order,
		Version:     FormatVersion,
		MeshDepth:   spec.MeshDepth,
		TrixelCount: uint32(len(buckets)),
		RecordSize:  RecordBytes,
		FaintMag:    math.Inf(-1),
		BrightMag:   math.Inf(1),
	}

	sorted := make([][]Entry, len(buckets))
	var named []Names
	for t, bucket := range buckets {
		sorted[t] = slices.Clone(bucket)
		slices.SortStableFunc(sorted[t], func(a, b Entry) int {
			return cmp.Compare(a.Record.Mag, b.Record.Mag)
		})
		h.TotalRecords += uint64(len(bucket))
		h.MaxPerTrixel = max(h.MaxPerTrixel, uint32(len(bucket)))
		for _, e := range sorted[t] {
			h.FaintMag = math.Max(h.FaintMag, e.Record.Magnitude())
			h.BrightMag = math.Min(h.BrightMag, e.Record.Magnitude())
			h.MaxProperMotion = math.Max(h.MaxProperMotion, math.Hypot(e.Record.PMRAMas(), e.Record.PMDecMas()))
			if e.Names != nil {
				named = append(named, *e.Names)
			}
		}
	}
	if h.TotalRecords == 0 {
		h.FaintMag, h.BrightMag = 0, 0
	}
	if spec.FaintMag != 0 {
		h.FaintMag = spec.FaintMag
	}
	if len(named) > 0 && names == nil {
		return Header{}, ErrNamesNotWritten
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(EncodeHeader(h)); err != nil {
		return Header{}, err
	}
	var count [CountBytes]byte
	for _, bucket := range sorted {
		order.PutUint32(count[:], uint32(len(bucket)))
		if _, err := bw.Write(count[:]); err != nil {
			return Header{}, err
		}
	}
	var rec [RecordBytes]byte
	for _, bucket := range sorted {
		for _, e := range bucket {
			r := e.Record
			if e.Names != nil {
				r.Flags |= FlagHasName
			} else {
				r.Flags &^= FlagHasName
			}
			if err := EncodeRecord(rec[:], order, r); err != nil {
				return Header{}, err
			}
			if _, err := bw.Write(rec[:]); err != nil {
				return Header{}, err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return Header{}, err
	}

	if names == nil {
		return h, nil
	}
	return h, WriteNames(names, order, named)
}

// WriteNames writes a name table holding entries, in order.
func WriteNames(w io.Writer, order binary.ByteOrder, entries []Names) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(EncodeNameHeader(NameHeader{Order: order, Count: uint32(len(entries))})); err != nil {
		return err
	}
	var buf [NameEntryBytes]byte
	for _, n := range entries {
		if err := EncodeNames(buf[:], n); err != nil {
			return err
		}
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

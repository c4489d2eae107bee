package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// TierReader provides random access to the records of a tier. Every record it
// returns, raw or decoded, is in host byte order.
type TierReader struct {
	r      io.ReaderAt
	closer io.Closer
	header Header
	counts []uint32
	// firsts[t] is the index of the first record of trixel t
	firsts []uint64
}

// OpenTierFile opens the tier at path. The caller must Close the reader.
func OpenTierFile(path string) (*TierReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tr, err := NewTierReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	tr.closer = f
	return tr, nil
}

// NewTierReader reads and checks the header and record counts from r.
func NewTierReader(r io.ReaderAt) (*TierReader, error) {
	tr := &TierReader{r: r}

	hb := make([]byte, HeaderBytes)
	if err := readFullAt(r, hb, 0); err != nil {
		if errors.Is(err, ErrShortRead) {
			return nil, ErrHeaderTooShort
		}
		return nil, err
	}
	if err := DecodeHeader(&tr.header, hb); err != nil {
		return nil, err
	}

	cb := make([]byte, CountBytes*int64(tr.header.TrixelCount))
	if err := readFullAt(r, cb, HeaderBytes); err != nil {
		return nil, fmt.Errorf("%w: record counts", err)
	}
	tr.counts = make([]uint32, tr.header.TrixelCount)
	tr.firsts = make([]uint64, tr.header.TrixelCount)
	var total uint64
	for t := range tr.counts {
		tr.counts[t] = tr.header.Order.Uint32(cb[t*CountBytes : (t+1)*CountBytes])
		tr.firsts[t] = total
		total += uint64(tr.counts[t])
	}
	if total != tr.header.TotalRecords {
		return nil, fmt.Errorf("%w: counts sum %d, header total %d", ErrCountsMismatch, total, tr.header.TotalRecords)
	}
	return tr, nil
}

func (tr *TierReader) Header() Header { return tr.header }

func (tr *TierReader) TrixelCount() uint32 { return tr.header.TrixelCount }

// Count returns the number of records stored for trixel t, zero if the tier
// does not cover t.
func (tr *TierReader) Count(t uint32) uint32 {
	if t >= uint32(len(tr.counts)) {
		return 0
	}
	return tr.counts[t]
}

// ReadRaw reads n records of trixel t starting at the trixel's record first.
func (tr *TierReader) ReadRaw(t uint32, first, n uint32) ([]byte, error) {
	if t >= uint32(len(tr.counts)) {
		return nil, ErrTrixelRange
	}
	if uint64(first)+uint64(n) > uint64(tr.counts[t]) {
		return nil, fmt.Errorf("%w: trixel %d, [%d, %d) of %d", ErrRecordRange, t, first, first+n, tr.counts[t])
	}
	data := make([]byte, int(n)*RecordBytes)
	off := tr.header.DataOffset() + int64(tr.firsts[t]+uint64(first))*RecordBytes
	if err := readFullAt(tr.r, data, off); err != nil {
		return nil, err
	}
	if err := NormalizeRecords(tr.header, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Records reads and decodes n records of trixel t starting at first.
func (tr *TierReader) Records(t uint32, first, n uint32) ([]Record, error) {
	data, err := tr.ReadRaw(t, first, n)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(data)
}

// Record reads the i'th record of trixel t.
func (tr *TierReader) Record(t uint32, i uint32) (Record, error) {
	recs, err := tr.Records(t, i, 1)
	if err != nil {
		return Record{}, err
	}
	return recs[0], nil
}

func (tr *TierReader) Close() error {
	if tr.closer == nil {
		return nil
	}
	err := tr.closer.Close()
	tr.closer = nil
	return err
}

func readFullAt(r io.ReaderAt, b []byte, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: wanted %d bytes at %d, got %d", ErrShortRead, len(b), off, n)
	}
	return err
}

package catalog

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuckets() [][]Entry {
	return [][]Entry{
		{
			{Record: NewRecord(10, 10, 0, 0, 0, 5, 0.5)},
			{Record: NewRecord(11, 11, 900, 0, 3, 2, 0.1), Names: &Names{Long: "Alpha", Alt: "α"}},
			{Record: NewRecord(12, 12, 0, 0, 0, 5, 0.2)},
		},
		{},
		{
			{Record: NewRecord(200, -40, 1, 1, 0, 3, 1.2), Names: &Names{Long: "Gamma"}},
		},
	}
}

func writeTestTier(t *testing.T, order binary.ByteOrder) ([]byte, []byte, Header) {
	var data, names bytes.Buffer
	h, err := WriteTier(&data, &names, TierSpec{Order: order, MeshDepth: 0}, testBuckets())
	require.NoError(t, err)
	return data.Bytes(), names.Bytes(), h
}

func TestWriteTierHeader(t *testing.T) {
	_, _, h := writeTestTier(t, binary.LittleEndian)
	assert.Equal(t, uint32(3), h.TrixelCount)
	assert.Equal(t, uint64(4), h.TotalRecords)
	assert.Equal(t, uint32(3), h.MaxPerTrixel)
	assert.InDelta(t, 5.0, h.FaintMag, 1e-9)
	assert.InDelta(t, 2.0, h.BrightMag, 1e-9)
	assert.InDelta(t, 900.0, h.MaxProperMotion, 0.1)
}

func TestWriteTierNeedsNames(t *testing.T) {
	var data bytes.Buffer
	_, err := WriteTier(&data, nil, TierSpec{}, testBuckets())
	assert.ErrorIs(t, err, ErrNamesNotWritten)
}

func TestTierReaderSortsByMagnitude(t *testing.T) {
	data, names, _ := writeTestTier(t, binary.LittleEndian)
	tr, err := NewTierReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint32(3), tr.Count(0))
	assert.Equal(t, uint32(0), tr.Count(1))
	assert.Equal(t, uint32(1), tr.Count(2))
	assert.InDelta(t, 900.0, tr.Header().MaxProperMotion, 0.1)
	assert.Equal(t, uint32(0), tr.Count(99))

	recs, err := tr.Records(0, 0, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.InDelta(t, 2.0, recs[0].Magnitude(), 1e-9)
	assert.True(t, recs[0].HasName())
	// equal magnitudes keep their input order
	assert.InDelta(t, 10.0, recs[1].RADeg(), 1e-6)
	assert.InDelta(t, 12.0, recs[2].RADeg(), 1e-6)
	assert.False(t, recs[1].HasName())

	nr, err := NewNameReader(bytes.NewReader(names))
	require.NoError(t, err)
	first, err := nr.Next()
	require.NoError(t, err)
	assert.Equal(t, "Alpha", first.Long)
	second, err := nr.Next()
	require.NoError(t, err)
	assert.Equal(t, "Gamma", second.Long)
}

// TestTierByteOrderRoundTrip loads the same catalog written in both orders.
// One of them is always the non host order and so exercises the swap.
func TestTierByteOrderRoundTrip(t *testing.T) {
	le, _, _ := writeTestTier(t, binary.LittleEndian)
	be, _, _ := writeTestTier(t, binary.BigEndian)

	lr, err := NewTierReader(bytes.NewReader(le))
	require.NoError(t, err)
	br, err := NewTierReader(bytes.NewReader(be))
	require.NoError(t, err)
	assert.NotEqual(t, lr.Header().Swapped(), br.Header().Swapped())

	for trixel := range uint32(3) {
		n := lr.Count(trixel)
		require.Equal(t, n, br.Count(trixel))

		lraw, err := lr.ReadRaw(trixel, 0, n)
		require.NoError(t, err)
		braw, err := br.ReadRaw(trixel, 0, n)
		require.NoError(t, err)
		assert.Equal(t, lraw, braw)

		lrecs, err := lr.Records(trixel, 0, n)
		require.NoError(t, err)
		brecs, err := br.Records(trixel, 0, n)
		require.NoError(t, err)
		assert.Equal(t, lrecs, brecs)
	}
}

func TestTierReaderRanges(t *testing.T) {
	data, _, _ := writeTestTier(t, binary.LittleEndian)
	tr, err := NewTierReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = tr.ReadRaw(3, 0, 1)
	assert.ErrorIs(t, err, ErrTrixelRange)
	_, err = tr.ReadRaw(0, 2, 2)
	assert.ErrorIs(t, err, ErrRecordRange)

	r, err := tr.Record(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, r.RADeg(), 1e-6)
}

func TestNewTierReaderErrors(t *testing.T) {
	data, _, _ := writeTestTier(t, binary.LittleEndian)

	_, err := NewTierReader(bytes.NewReader(data[:HeaderBytes-4]))
	assert.ErrorIs(t, err, ErrHeaderTooShort)

	_, err = NewTierReader(bytes.NewReader(data[:HeaderBytes+4]))
	assert.ErrorIs(t, err, ErrShortRead)

	corrupt := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(corrupt[HeaderBytes:], 7)
	_, err = NewTierReader(bytes.NewReader(corrupt))
	assert.ErrorIs(t, err, ErrCountsMismatch)

	truncated := data[:len(data)-RecordBytes/2]
	tr, err := NewTierReader(bytes.NewReader(truncated))
	require.NoError(t, err)
	_, err = tr.ReadRaw(2, 0, 1)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestOpenTierFile(t *testing.T) {
	data, _, _ := writeTestTier(t, binary.BigEndian)
	path := filepath.Join(t.TempDir(), "tier.skyc")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tr, err := OpenTierFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), tr.Header().TotalRecords)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	_, err = OpenTierFile(filepath.Join(t.TempDir(), "missing.skyc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteTierMaxProperMotion(t *testing.T) {
	tests := []struct {
		name    string
		buckets [][]Entry
		want    float64
	}{
		{"empty", [][]Entry{{}, {}}, 0},
		{"still", [][]Entry{{{Record: NewRecord(1, 1, 0, 0, 0, 4, 0)}}}, 0},
		{"combined components", [][]Entry{
			{{Record: NewRecord(1, 1, 30, 40, 0, 4, 0)}},
			{{Record: NewRecord(2, 2, -3000, 4000, 0, 9, 0)}, {Record: NewRecord(3, 3, 10, 0, 0, 7, 0)}},
		}, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bytes.Buffer
			h, err := WriteTier(&data, nil, TierSpec{Order: binary.BigEndian}, tt.buckets)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, h.MaxProperMotion, 1e-9)

			tr, err := NewTierReader(bytes.NewReader(data.Bytes()))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, tr.Header().MaxProperMotion, tt.want)
			assert.InDelta(t, tt.want, tr.Header().MaxProperMotion, 0.1)
		})
	}
}

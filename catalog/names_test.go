package catalog

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesRoundTrip(t *testing.T) {
	want := []Names{
		{Long: "Sirius", Alt: "α CMa"},
		{Long: "", Alt: "β Ori"},
		{Long: strings.Repeat("x", LongNameBytes), Alt: "12345678"},
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteNames(&buf, order, want))
			assert.Equal(t, NamesHeaderBytes+len(want)*NameEntryBytes, buf.Len())

			nr, err := NewNameReader(&buf)
			require.NoError(t, err)
			assert.Equal(t, uint32(len(want)), nr.Header().Count)
			assert.Equal(t, order, nr.Header().Order)

			for _, w := range want {
				got, err := nr.Next()
				require.NoError(t, err)
				assert.Equal(t, w, got)
			}
			_, err = nr.Next()
			assert.ErrorIs(t, err, ErrNamesExhausted)
		})
	}
}

func TestEncodeNamesTooLong(t *testing.T) {
	b := make([]byte, NameEntryBytes)
	err := EncodeNames(b, Names{Long: strings.Repeat("x", LongNameBytes+1)})
	assert.ErrorIs(t, err, ErrNameTooLong)
	err = EncodeNames(b, Names{Alt: "123456789"})
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestNewNameReaderErrors(t *testing.T) {
	_, err := NewNameReader(bytes.NewReader([]byte("SKYN")))
	assert.ErrorIs(t, err, ErrNamesTooShort)

	_, err = NewNameReader(bytes.NewReader(make([]byte, NamesHeaderBytes)))
	assert.ErrorIs(t, err, ErrNamesBadMagic)
}

func TestNameReaderTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNames(&buf, binary.LittleEndian, []Names{{Long: "Vega"}, {Long: "Deneb"}}))
	truncated := buf.Bytes()[:NamesHeaderBytes+NameEntryBytes+3]

	nr, err := NewNameReader(bytes.NewReader(truncated))
	require.NoError(t, err)
	_, err = nr.Next()
	require.NoError(t, err)
	_, err = nr.Next()
	assert.ErrorIs(t, err, ErrShortRead)
}

package catalog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	NamesMagic       = "SKYN"
	NamesHeaderBytes = 16
	LongNameBytes    = 32
	AltNameBytes     = 8
	NameEntryBytes   = LongNameBytes + AltNameBytes

	namesBOMFirstByte   = 4
	namesBOMEnd         = 6
	namesVersionByte    = 6
	namesCountFirstByte = 8
	namesCountEnd       = 12
)

// Names are the strings attached to a named record.
type Names struct {
	Long string
	Alt  string
}

// NameHeader describes a name table file.
type NameHeader struct {
	Order   binary.ByteOrder
	Version uint8
	Count   uint32
}

func EncodeNameHeader(h NameHeader) []byte {
	order := h.Order
	if order == nil {
		order = binary.LittleEndian
	}
	b := make([]byte, NamesHeaderBytes)
	copy(b[0:4], NamesMagic)
	order.PutUint16(b[namesBOMFirstByte:namesBOMEnd], ByteOrderMark)
	b[namesVersionByte] = FormatVersion
	order.PutUint32(b[namesCountFirstByte:namesCountEnd], h.Count)
	return b
}

func DecodeNameHeader(h *NameHeader, b []byte) error {
	if len(b) < NamesHeaderBytes {
		return ErrNamesTooShort
	}
	if string(b[0:4]) != NamesMagic {
		return ErrNamesBadMagic
	}
	order, err := DetectByteOrder(b[namesBOMFirstByte:namesBOMEnd])
	if err != nil {
		return err
	}
	h.Order = order
	h.Version = b[namesVersionByte]
	if h.Version != FormatVersion {
		return ErrBadVersion
	}
	h.Count = order.Uint32(b[namesCountFirstByte:namesCountEnd])
	return nil
}

// EncodeNames writes the fixed width entry for n into b.
func EncodeNames(b []byte, n Names) error {
	if len(b) < NameEntryBytes {
		return ErrNamesTooShort
	}
	if len(n.Long) > LongNameBytes || len(n.Alt) > AltNameBytes {
		return fmt.Errorf("%w: %q/%q", ErrNameTooLong, n.Long, n.Alt)
	}
	clear(b[:NameEntryBytes])
	copy(b[:LongNameBytes], n.Long)
	copy(b[LongNameBytes:NameEntryBytes], n.Alt)
	return nil
}

func DecodeNames(b []byte) (Names, error) {
	if len(b) < NameEntryBytes {
		return Names{}, ErrNamesTooShort
	}
	return Names{
		Long: fixedString(b[:LongNameBytes]),
		Alt:  fixedString(b[LongNameBytes:NameEntryBytes]),
	}, nil
}

func fixedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}

// NameReader reads name table entries sequentially, in lock step with the
// named records of the matching tier.
type NameReader struct {
	r      *bufio.Reader
	header NameHeader
	read   uint32
	buf    [NameEntryBytes]byte
}

func NewNameReader(r io.Reader) (*NameReader, error) {
	br := bufio.NewReader(r)
	hb := make([]byte, NamesHeaderBytes)
	if _, err := io.ReadFull(br, hb); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrNamesTooShort
		}
		return nil, err
	}
	nr := &NameReader{r: br}
	if err := DecodeNameHeader(&nr.header, hb); err != nil {
		return nil, err
	}
	return nr, nil
}

func (nr *NameReader) Header() NameHeader { return nr.header }

// Next returns the next entry. ErrNamesExhausted is returned once all the
// entries declared in the header have been read.
func (nr *NameReader) Next() (Names, error) {
	if nr.read >= nr.header.Count {
		return Names{}, ErrNamesExhausted
	}
	if _, err := io.ReadFull(nr.r, nr.buf[:]); err != nil {
		return Names{}, fmt.Errorf("%w: entry %d: %v", ErrShortRead, nr.read, err)
	}
	nr.read++
	return DecodeNames(nr.buf[:])
}

package catalog

import (
	"encoding/binary"
	"math"
)

const (
	Magic            = "SKYC"
	FormatVersion    = uint8(1)
	HeaderBytes      = 64
	CountBytes       = 4
	ByteOrderMark    = uint16(0x4B53)
	byteOrderSwapped = uint16(0x534B)

	// Header layout, see doc.go
	HeaderMagicFirstByte      = 0
	HeaderMagicEnd            = 4
	HeaderBOMFirstByte        = 4
	HeaderBOMEnd              = 6
	HeaderVersionByte         = 6
	HeaderDepthByte           = 7
	HeaderFaintFirstByte      = 8
	HeaderFaintEnd            = 10
	HeaderBrightFirstByte     = 10
	HeaderBrightEnd           = 12
	HeaderTrixelsFirstByte    = 12
	HeaderTrixelsEnd          = 16
	HeaderTotalFirstByte      = 16
	HeaderTotalEnd            = 24
	HeaderRecordSizeFirstByte = 24
	HeaderRecordSizeEnd       = 28
	HeaderMaxPerTrixelFirst   = 28
	HeaderMaxPerTrixelEnd     = 32
	HeaderMaxMotionFirstByte  = 32
	HeaderMaxMotionEnd        = 36
)

// Header describes a tier file. The values are decoded into host order.
type Header struct {
	Order        binary.ByteOrder
	Version      uint8
	MeshDepth    uint8
	FaintMag     float64
	BrightMag    float64
	TrixelCount  uint32
	TotalRecords uint64
	RecordSize   uint32
	// MaxPerTrixel is the largest record count of any one trixel
	MaxPerTrixel uint32
	// MaxProperMotion bounds the proper motion, in mas/yr, of every record
	MaxProperMotion float64
}

// HostOrder is the byte order of the running machine.
var HostOrder = hostOrder()

func hostOrder() binary.ByteOrder {
	b := binary.NativeEndian.AppendUint16(nil, 1)
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Swapped reports whether the file order differs from the host order, so that
// raw bytes must be swapped before they are reinterpreted natively.
func (h Header) Swapped() bool {
	return h.Order != HostOrder
}

// DataOffset returns the file offset of the first record.
func (h Header) DataOffset() int64 {
	return HeaderBytes + CountBytes*int64(h.TrixelCount)
}

// DetectByteOrder decodes the byte order marker.
func DetectByteOrder(bom []byte) (binary.ByteOrder, error) {
	if len(bom) < 2 {
		return nil, ErrHeaderTooShort
	}
	switch binary.LittleEndian.Uint16(bom) {
	case ByteOrderMark:
		return binary.LittleEndian, nil
	case byteOrderSwapped:
		return binary.BigEndian, nil
	}
	return nil, ErrBadByteOrderMarker
}

func (h Header) MarshalBinary() ([]byte, error) {
	return EncodeHeader(h), nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	return DecodeHeader(h, b)
}

// EncodeHeader encodes h in h.Order, little endian if no order is set.
func EncodeHeader(h Header) []byte {
	order := h.Order
	if order == nil {
		order = binary.LittleEndian
	}
	version := h.Version
	if version == 0 {
		version = FormatVersion
	}
	recordSize := h.RecordSize
	if recordSize == 0 {
		recordSize = RecordBytes
	}

	b := make([]byte, HeaderBytes)
	copy(b[HeaderMagicFirstByte:HeaderMagicEnd], Magic)
	order.PutUint16(b[HeaderBOMFirstByte:HeaderBOMEnd], ByteOrderMark)
	b[HeaderVersionByte] = version
	b[HeaderDepthByte] = h.MeshDepth
	order.PutUint16(b[HeaderFaintFirstByte:HeaderFaintEnd], uint16(EncodeMag(h.FaintMag)))
	order.PutUint16(b[HeaderBrightFirstByte:HeaderBrightEnd], uint16(EncodeMag(h.BrightMag)))
	order.PutUint32(b[HeaderTrixelsFirstByte:HeaderTrixelsEnd], h.TrixelCount)
	order.PutUint64(b[HeaderTotalFirstByte:HeaderTotalEnd], h.TotalRecords)
	order.PutUint32(b[HeaderRecordSizeFirstByte:HeaderRecordSizeEnd], recordSize)
	order.PutUint32(b[HeaderMaxPerTrixelFirst:HeaderMaxPerTrixelEnd], h.MaxPerTrixel)
	order.PutUint32(b[HeaderMaxMotionFirstByte:HeaderMaxMotionEnd], uint32(math.Ceil(h.MaxProperMotion*MotionScale)))
	return b
}

// DecodeHeader decodes the header, detecting the file byte order from the
// marker.
func DecodeHeader(h *Header, b []byte) error {
	if len(b) < HeaderBytes {
		return ErrHeaderTooShort
	}
	if string(b[HeaderMagicFirstByte:HeaderMagicEnd]) != Magic {
		return ErrBadMagic
	}
	order, err := DetectByteOrder(b[HeaderBOMFirstByte:HeaderBOMEnd])
	if err != nil {
		return err
	}
	h.Order = order
	h.Version = b[HeaderVersionByte]
	if h.Version != FormatVersion {
		return ErrBadVersion
	}
	h.MeshDepth = b[HeaderDepthByte]
	h.FaintMag = DecodeMag(int16(order.Uint16(b[HeaderFaintFirstByte:HeaderFaintEnd])))
	h.BrightMag = DecodeMag(int16(order.Uint16(b[HeaderBrightFirstByte:HeaderBrightEnd])))
	h.TrixelCount = order.Uint32(b[HeaderTrixelsFirstByte:HeaderTrixelsEnd])
	h.TotalRecords = order.Uint64(b[HeaderTotalFirstByte:HeaderTotalEnd])
	h.RecordSize = order.Uint32(b[HeaderRecordSizeFirstByte:HeaderRecordSizeEnd])
	h.MaxPerTrixel = order.Uint32(b[HeaderMaxPerTrixelFirst:HeaderMaxPerTrixelEnd])
	h.MaxProperMotion = float64(order.Uint32(b[HeaderMaxMotionFirstByte:HeaderMaxMotionEnd])) / MotionScale
	if h.RecordSize != RecordBytes {
		return ErrBadRecordSize
	}
	return nil
}

// EncodeMag converts a magnitude to the stored hundredths, saturating at the
// int16 range.
func EncodeMag(mag float64) int16 {
	v := math.Round(mag * 100)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func DecodeMag(v int16) float64 {
	return float64(v) / 100.0
}

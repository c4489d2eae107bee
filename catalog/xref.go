package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

const XRefVersion = uint16(1)

// RecordPos locates a single record in a tier.
type RecordPos struct {
	Trixel uint32 `cbor:"1,keyasint"`
	Index  uint32 `cbor:"2,keyasint"`
}

// XRefIndex maps cross reference ids to record positions for one tier. Ids
// of zero are not indexed. When an id occurs more than once the first record
// in file order wins.
type XRefIndex struct {
	Version uint16               `cbor:"1,keyasint"`
	Tier    string               `cbor:"2,keyasint"`
	Entries map[uint32]RecordPos `cbor:"3,keyasint"`
}

// BuildXRefIndex scans every record of tr.
func BuildXRefIndex(tier string, tr *TierReader) (*XRefIndex, error) {
	x := &XRefIndex{
		Version: XRefVersion,
		Tier:    tier,
		Entries: make(map[uint32]RecordPos),
	}
	for t := range tr.TrixelCount() {
		n := tr.Count(t)
		if n == 0 {
			continue
		}
		recs, err := tr.Records(t, 0, n)
		if err != nil {
			return nil, fmt.Errorf("trixel %d: %w", t, err)
		}
		for i, r := range recs {
			if r.XRef == 0 {
				continue
			}
			if _, ok := x.Entries[r.XRef]; ok {
				continue
			}
			x.Entries[r.XRef] = RecordPos{Trixel: t, Index: uint32(i)}
		}
	}
	return x, nil
}

// Lookup returns the position of the record with cross reference id xref.
func (x *XRefIndex) Lookup(xref uint32) (RecordPos, error) {
	pos, ok := x.Entries[xref]
	if !ok || xref == 0 {
		return RecordPos{}, fmt.Errorf("%w: %d", ErrXRefNotFound, xref)
	}
	return pos, nil
}

// Encode writes x using core deterministic CBOR, so an unchanged index always
// produces the same bytes.
func (x *XRefIndex) Encode(w io.Writer) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return err
	}
	return em.NewEncoder(w).Encode(x)
}

func DecodeXRefIndex(r io.Reader) (*XRefIndex, error) {
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	x := &XRefIndex{}
	if err := dm.NewDecoder(r).Decode(x); err != nil {
		return nil, err
	}
	if x.Version != XRefVersion {
		return nil, fmt.Errorf("%w: %d", ErrXRefVersion, x.Version)
	}
	if x.Entries == nil {
		x.Entries = make(map[uint32]RecordPos)
	}
	return x, nil
}

func SaveXRefIndex(path string, x *XRefIndex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := x.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadXRefIndex(path string) (*XRefIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeXRefIndex(f)
}

package starindex

import (
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/forestrie/go-skyindex/catalogtesting"
	"github.com/forestrie/go-skyindex/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadResidentTier(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 1, MeshDepth: 4, TestLabelPrefix: "loader"})
	stars := tc.Gen.Stars(500, -1, 8, 1200)
	catalogtesting.Name(stars, 10)
	files := tc.WriteTier("named", stars)

	ix := openTestIndex(t, tc, []TierConfig{resident(files)})
	require.Equal(t, 500, ix.Len())

	tiers := ix.Tiers()
	require.Len(t, tiers, 1)
	assert.True(t, tiers[0].Available)
	assert.NoError(t, tiers[0].Err)
	assert.Equal(t, 500, tiers[0].Records)

	assert.True(t, ix.cells.sorted(ix.stars))
	p := ix.Pass(ix.Epoch())
	filed := 0
	for cell := range ix.cells.Size() {
		for _, id := range ix.Cells().Cell(mesh.Trixel(cell)) {
			s := ix.stars[id]
			assert.Equal(t, mesh.Trixel(cell), s.Cell())
			assert.Equal(t, ix.mesh.CellOf(s.ApparentPosition(p)), s.Cell())
			filed++
		}
	}
	assert.Equal(t, 500, filed)

	named := 0
	for id := range ix.Len() {
		s, ok := ix.ByID(StarID(id))
		require.True(t, ok)
		if s.HasName() {
			named++
		}
	}
	assert.Equal(t, 50, named)
}

func TestFastMoverBands(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{MeshDepth: 3, TestLabelPrefix: "loader"})
	files := tc.WriteTier("named", []catalogtesting.StarSpec{
		{RA: 10, Dec: 10, PMRA: 900, Mag: 1},
		{RA: 20, Dec: 10, PMDec: -500, Mag: 2},
		{RA: 30, Dec: 10, PMRA: 300, PMDec: 50, Mag: 3},
		{RA: 40, Dec: 10, PMRA: 840, Mag: 4},
		{RA: 50, Dec: 10, Mag: 5},
	})
	ix := openTestIndex(t, tc, []TierConfig{resident(files)})

	bands := ix.FastMovers()
	require.Len(t, bands, 2)
	assert.Equal(t, 840.0, bands[0].Cutoff)
	assert.Equal(t, 304.0, bands[1].Cutoff)

	memberMags := func(b Band) []float64 {
		var mags []float64
		for _, id := range b.Members {
			mags = append(mags, ix.stars[id].Mag)
		}
		return mags
	}
	assert.ElementsMatch(t, []float64{1}, memberMags(bands[0]))
	// exactly on a cutoff does not exceed it
	assert.ElementsMatch(t, []float64{2, 3, 4}, memberMags(bands[1]))
	assert.InDelta(t, 148.026, ix.ReindexInterval(), 0.001)
}

func TestLoadByteOrderRoundTrip(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 2, MeshDepth: 4, TestLabelPrefix: "loader"})
	stars := tc.Gen.Stars(300, 0, 7, 2000)
	catalogtesting.Name(stars, 3)
	catalogtesting.Number(stars, 1000)

	little := tc.WriteTierOrder("le", binary.LittleEndian, stars)
	big := tc.WriteTierOrder("be", binary.BigEndian, stars)
	assert.NotEqual(t, little.Header.Order, big.Header.Order)

	lix := openTestIndex(t, tc, []TierConfig{resident(little)})
	bix := openTestIndex(t, tc, []TierConfig{resident(big)})
	require.Equal(t, lix.Len(), bix.Len())

	for id := range lix.Len() {
		ls, bs := lix.stars[id], bix.stars[id]
		bs.Tier = ls.Tier
		assert.Equal(t, ls, bs)
	}
	for i, s := range stars {
		got, ok := bix.ByCrossReferenceID(1000 + uint32(i))
		require.True(t, ok)
		assert.InDelta(t, s.RA, got.RA, 1e-6)
		assert.InDelta(t, s.Dec, got.Dec, 1e-6)
		assert.InDelta(t, s.PMRA, got.PMRA, 0.05)
		assert.InDelta(t, s.PMDec, got.PMDec, 0.05)
		assert.InDelta(t, s.Mag, got.Mag, 0.005)
		assert.Equal(t, s.Name, got.Name)
	}
}

func TestTierFailuresLeaveOthersAvailable(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 3, MeshDepth: 3, TestLabelPrefix: "loader"})
	good := tc.WriteTier("good", tc.Gen.Stars(50, 0, 6, 10))

	garbage := filepath.Join(tc.Dir, "garbage.skyc")
	require.NoError(t, os.WriteFile(garbage, make([]byte, 200), 0o644))

	shallow, err := mesh.New(2)
	require.NoError(t, err)
	wrongDepth, err := catalogtesting.WriteTier(tc.Dir, "shallow", shallow, binary.LittleEndian, tc.Gen.Stars(20, 8, 10, 10))
	require.NoError(t, err)

	badNames := resident(tc.WriteTier("badnames", []catalogtesting.StarSpec{{RA: 1, Dec: 1, Mag: 1, Name: "x"}}))
	badNames.NamesPath = filepath.Join(tc.Dir, "missing.names")

	log := &recordingLogger{}
	ix, err := Open(context.Background(), log, tc.Mesh, []TierConfig{
		{Name: "missing", Path: filepath.Join(tc.Dir, "missing.skyc"), Resident: true},
		{Name: "garbage", Path: garbage, Resident: true},
		blockCached(wrongDepth, 8),
		badNames,
		resident(good),
	})
	require.NoError(t, err)
	defer ix.Close()

	tests := []struct {
		name string
		kind ErrorKind
		want error
	}{
		{"missing", KindIO, fs.ErrNotExist},
		{"garbage", KindFormat, catalog.ErrBadMagic},
		{"shallow", KindFormat, ErrDepthMismatch},
		{"badnames", KindIO, fs.ErrNotExist},
	}
	tiers := ix.Tiers()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := tiers[i]
			assert.Equal(t, tt.name, tier.Config.Name)
			assert.False(t, tier.Available)
			var te *TierError
			require.True(t, errors.As(tier.Err, &te))
			assert.Equal(t, tt.kind, te.Kind)
			assert.Equal(t, tt.name, te.Tier)
			assert.ErrorIs(t, tier.Err, tt.want)
			assert.Equal(t, 1, log.count("tier "+tt.name+":"))
		})
	}

	assert.True(t, tiers[4].Available)
	assert.Equal(t, 50, ix.Len())
	// only the good tier contributes
	assert.InDelta(t, tiers[4].Header.FaintMag, ix.FaintestAvailableMagnitude(), 1e-9)
}

func TestResidentDepthMismatchLoadsBestEffort(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 4, MeshDepth: 4, TestLabelPrefix: "loader"})
	shallow, err := mesh.New(2)
	require.NoError(t, err)
	files, err := catalogtesting.WriteTier(tc.Dir, "shallow", shallow, binary.BigEndian, tc.Gen.Stars(200, 0, 6, 500))
	require.NoError(t, err)

	log := &recordingLogger{}
	ix, err := Open(context.Background(), log, tc.Mesh, []TierConfig{resident(files)})
	require.NoError(t, err)
	defer ix.Close()

	assert.Equal(t, 200, ix.Len())
	assert.Equal(t, 1, log.count("integrity: tier shallow was built at mesh depth 2"))
	p := ix.Pass(ix.Epoch())
	for _, s := range ix.stars {
		assert.Equal(t, ix.mesh.CellOf(s.ApparentPosition(p)), s.Cell())
	}
	assert.True(t, ix.cells.sorted(ix.stars))
}

func TestNamedRecordsWithoutNames(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{MeshDepth: 3, TestLabelPrefix: "loader"})
	files := tc.WriteTier("named", []catalogtesting.StarSpec{
		{RA: 1, Dec: 1, Mag: 1, Name: "Alpha"},
		{RA: 2, Dec: 2, Mag: 2, Name: "Beta"},
	})
	cfg := resident(files)
	cfg.NamesPath = ""

	log := &recordingLogger{}
	ix, err := Open(context.Background(), log, tc.Mesh, []TierConfig{cfg})
	require.NoError(t, err)
	defer ix.Close()

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 1, log.count("integrity: tier named has named records without name table entries"))
	_, ok := ix.ByName("alpha")
	assert.False(t, ok)
}

package starindex

import (
	"math"
	"testing"

	"github.com/forestrie/go-skyindex/catalogtesting"
	"github.com/forestrie/go-skyindex/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkFiled asserts every resident star is filed exactly once, under the
// trixel it reports, and that every cell is in order.
func checkFiled(t *testing.T, ix *Index) {
	t.Helper()
	seen := make([]int, ix.Len())
	for cell := range ix.Cells().Size() {
		for _, id := range ix.Cells().Cell(mesh.Trixel(cell)) {
			seen[id]++
			assert.Equal(t, mesh.Trixel(cell), ix.stars[id].Cell(), "star %d", id)
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "star %d filed %d times", id, n)
	}
	assert.True(t, ix.cells.sorted(ix.stars))
}

func cellSnapshot(ix *Index) [][]StarID {
	out := make([][]StarID, ix.Cells().Size())
	for cell := range out {
		out[cell] = append([]StarID(nil), ix.Cells().Cell(mesh.Trixel(cell))...)
	}
	return out
}

func TestReindexInterval(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 21, MeshDepth: 3, TestLabelPrefix: "reindex"})
	files := tc.WriteTier("base", tc.Gen.Stars(200, 0, 6, 100))

	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{"default bands", nil, 45000.0 / 304},
		{"single band", []Option{WithBandCutoffs(500)}, 90},
		{"tighter drift", []Option{WithDriftBound(30)}, 30000.0 / 304},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := openTestIndex(t, tc, []TierConfig{resident(files)}, tt.opts...)
			assert.InDelta(t, tt.want, ix.ReindexInterval(), 1e-9)
		})
	}
	assert.InDelta(t, 148.026, 45000.0/304, 1e-3)

	t.Run("no bands uses fastest star", func(t *testing.T) {
		ix := openTestIndex(t, tc, []TierConfig{resident(files)}, WithBandCutoffs())
		require.Positive(t, ix.maxSlowPM)
		assert.InDelta(t, 45000/ix.maxSlowPM, ix.ReindexInterval(), 1e-9)
	})
	t.Run("nothing moves", func(t *testing.T) {
		ix := openTestIndex(t, tc, nil, WithBandCutoffs())
		assert.True(t, math.IsInf(ix.ReindexInterval(), 1))
	})
}

func TestReindexKinds(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 22, MeshDepth: 4, TestLabelPrefix: "reindex"})
	ix := openTestIndex(t, tc, []TierConfig{resident(tc.WriteTier("base", tc.Gen.Stars(300, 0, 6, 2000)))})
	ctx := t.Context()

	assert.Equal(t, ReindexIncremental, ix.Reindex(ctx, ix.Pass(EpochOfYear(2100))))
	assert.Equal(t, J2000, ix.Epoch())

	assert.Equal(t, ReindexFull, ix.Reindex(ctx, ix.Pass(EpochOfYear(2149))))
	assert.Equal(t, EpochOfYear(2149), ix.Epoch())
	checkFiled(t, ix)

	assert.Equal(t, ReindexIncremental, ix.Reindex(ctx, ix.Pass(EpochOfYear(2249))))
	assert.Equal(t, ReindexFull, ix.Reindex(ctx, ix.Pass(EpochOfYear(1990))))
	assert.Equal(t, "full", ReindexFull.String())
	assert.Equal(t, "incremental", ReindexIncremental.String())
}

func TestFullReindexFilesEveryStar(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 23, MeshDepth: 5, TestLabelPrefix: "reindex"})
	ix := openTestIndex(t, tc, []TierConfig{resident(tc.WriteTier("base", tc.Gen.Stars(2000, -1, 8, 3000)))})

	e := EpochOfYear(2600)
	ix.FullReindex(t.Context(), ix.Pass(e))
	checkFiled(t, ix)
	for _, s := range ix.stars {
		require.Equal(t, ix.Mesh().CellOf(s.PositionAt(e)), s.Cell())
	}
	for _, b := range ix.FastMovers() {
		assert.Equal(t, e, b.Indexed)
	}

	before := cellSnapshot(ix)
	ix.FullReindex(t.Context(), ix.Pass(e))
	assert.Equal(t, before, cellSnapshot(ix))
}

func TestIncrementalReindexRefilesFastMovers(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{Seed: 24, MeshDepth: 7, TestLabelPrefix: "reindex"})
	stars := tc.Gen.Stars(500, 0, 6, 300)
	stars = append(stars,
		catalogtesting.StarSpec{RA: 10, Dec: 0, PMRA: 60000, Mag: 4, Name: "Runner"},
		catalogtesting.StarSpec{RA: 200, Dec: -30, PMDec: 500, Mag: 5, Name: "Walker"},
	)
	ix := openTestIndex(t, tc, []TierConfig{resident(tc.WriteTier("base", stars))})

	runner, ok := ix.ByName("runner")
	require.True(t, ok)
	start := runner.Cell()

	e := EpochOfYear(2140)
	p := ix.Pass(e)
	require.Equal(t, ReindexIncremental, ix.Reindex(t.Context(), p))
	checkFiled(t, ix)

	runner, _ = ix.ByID(runner.ID)
	assert.NotEqual(t, start, runner.Cell())
	assert.Equal(t, ix.Mesh().CellOf(runner.PositionAt(e)), runner.Cell())

	members := map[StarID]bool{}
	for _, b := range ix.FastMovers() {
		assert.Equal(t, e, b.Indexed)
		for _, id := range b.Members {
			members[id] = true
			s, _ := ix.ByID(id)
			assert.Equal(t, ix.Mesh().CellOf(s.PositionAt(e)), s.Cell(), "band member %d", id)
		}
	}
	require.Len(t, members, 2)

	bound := DefaultDriftBound / 3600
	for _, s := range ix.stars {
		if members[s.ID] {
			continue
		}
		assert.Equal(t, ix.Mesh().CellOf(s.PositionAt(ix.Epoch())), s.Cell())
		assert.LessOrEqual(t, mesh.AngularDistance(s.PositionAt(e), s.PositionAt(ix.Epoch())), bound+1e-9)
	}

	before := cellSnapshot(ix)
	assert.Equal(t, 0, ix.incrementalReindex(ix.Pass(e)))
	assert.Equal(t, before, cellSnapshot(ix))
}

package starindex

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/forestrie/go-skyindex/blockcache"
	"github.com/forestrie/go-skyindex/catalogtesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger keeps every line so tests can check what was reported.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, "INFO "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count(substr string) int {
	n := 0
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func resident(files catalogtesting.TierFiles) TierConfig {
	return TierConfig{Name: files.Name, Path: files.Path, NamesPath: files.NamesPath, Resident: true}
}

func blockCached(files catalogtesting.TierFiles, trigger float64) TierConfig {
	return TierConfig{Name: files.Name, Path: files.Path, TriggerMag: trigger}
}

func openTestIndex(t *testing.T, tc catalogtesting.TestContext, tiers []TierConfig, opts ...Option) *Index {
	opts = append([]Option{WithCacheOptions(blockcache.WithBudget(64 << 20))}, opts...)
	ix, err := Open(context.Background(), tc.Log, tc.Mesh, tiers, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestOpenRejectsDuplicateTierNames(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{MeshDepth: 3, TestLabelPrefix: "starindex"})
	tiers := []TierConfig{{Name: "a"}, {Name: "a"}}
	_, err := Open(context.Background(), tc.Log, tc.Mesh, tiers)
	assert.ErrorIs(t, err, ErrTierName)

	_, err = Open(context.Background(), tc.Log, tc.Mesh, []TierConfig{{}})
	assert.ErrorIs(t, err, ErrTierName)
}

func TestOpenBudgetTooSmall(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{MeshDepth: 3, TestLabelPrefix: "starindex"})
	_, err := Open(context.Background(), tc.Log, tc.Mesh, nil, WithCacheOptions(blockcache.WithBudget(1)))
	assert.ErrorIs(t, err, blockcache.ErrBudgetTooSmall)
}

func TestPassTokens(t *testing.T) {
	tc := catalogtesting.NewTestContext(t, catalogtesting.TestConfig{MeshDepth: 3, TestLabelPrefix: "starindex"})
	ix := openTestIndex(t, tc, nil)

	a := ix.Pass(J2000)
	b := ix.Pass(J2000)
	assert.NotEqual(t, a.Token, b.Token)
	assert.NotZero(t, a.Token)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, ix.Mesh().Size(), ix.Cells().Size())
}

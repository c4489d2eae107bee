package blockcache

import (
	"testing"

	"github.com/forestrie/go-skyindex/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	src := &memSource{trixels: map[uint32][]catalog.Record{0: ladder(6, 1, 0.5)}}
	c, tier := newTestCache(t, 3, src)
	_, err := c.Ensure(Key{tier, 0}, 99)
	require.NoError(t, err)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(c)))
	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range families {
		m := mf.GetMetric()[0]
		if m.GetGauge() != nil {
			got[mf.GetName()] = m.GetGauge().GetValue()
		} else {
			got[mf.GetName()] = m.GetCounter().GetValue()
		}
	}
	assert.Len(t, got, 10)
	assert.Equal(t, 2.0, got["skyindex_blockcache_blocks"])
	assert.Equal(t, float64(6*catalog.RecordBytes), got["skyindex_blockcache_bytes"])
	assert.Equal(t, float64(blockBytes(3)), got["skyindex_blockcache_budget_bytes"])
	assert.Equal(t, 2.0, got["skyindex_blockcache_loads_total"])
	assert.Equal(t, 1.0, got["skyindex_blockcache_misses_total"])
}

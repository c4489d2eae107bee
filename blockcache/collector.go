package blockcache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports cache statistics to prometheus. Collection reads the
// cache, so it must happen on the goroutine that owns it, for example by
// gathering a registry after a pass completes.
type Collector struct {
	cache *Cache

	blocks             *prometheus.Desc
	chains             *prometheus.Desc
	bytes              *prometheus.Desc
	budget             *prometheus.Desc
	hits               *prometheus.Desc
	misses             *prometheus.Desc
	loads              *prometheus.Desc
	evictions          *prometheus.Desc
	checksumMismatches *prometheus.Desc
	integrityWarnings  *prometheus.Desc
}

func NewCollector(cache *Cache) *Collector {
	return &Collector{
		cache: cache,

		blocks: prometheus.NewDesc(
			"skyindex_blockcache_blocks",
			"Number of resident blocks",
			nil, nil,
		),
		chains: prometheus.NewDesc(
			"skyindex_blockcache_chains",
			"Number of tier and trixel chains with at least one resident block",
			nil, nil,
		),
		bytes: prometheus.NewDesc(
			"skyindex_blockcache_bytes",
			"Raw record bytes held by resident blocks",
			nil, nil,
		),
		budget: prometheus.NewDesc(
			"skyindex_blockcache_budget_bytes",
			"Configured byte budget",
			nil, nil,
		),
		hits: prometheus.NewDesc(
			"skyindex_blockcache_hits_total",
			"Ensure calls satisfied without loading a block",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"skyindex_blockcache_misses_total",
			"Ensure calls that loaded at least one block",
			nil, nil,
		),
		loads: prometheus.NewDesc(
			"skyindex_blockcache_loads_total",
			"Blocks read from tier files",
			nil, nil,
		),
		evictions: prometheus.NewDesc(
			"skyindex_blockcache_evictions_total",
			"Blocks evicted",
			nil, nil,
		),
		checksumMismatches: prometheus.NewDesc(
			"skyindex_blockcache_checksum_mismatches_total",
			"Refetched blocks whose content differed from the first load",
			nil, nil,
		),
		integrityWarnings: prometheus.NewDesc(
			"skyindex_blockcache_integrity_warnings_total",
			"Integrity warnings raised while loading blocks",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blocks
	ch <- c.chains
	ch <- c.bytes
	ch <- c.budget
	ch <- c.hits
	ch <- c.misses
	ch <- c.loads
	ch <- c.evictions
	ch <- c.checksumMismatches
	ch <- c.integrityWarnings
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.cache.Stats()

	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(s.Blocks))
	ch <- prometheus.MustNewConstMetric(c.chains, prometheus.GaugeValue, float64(s.Chains))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.Bytes))
	ch <- prometheus.MustNewConstMetric(c.budget, prometheus.GaugeValue, float64(s.Budget))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.loads, prometheus.CounterValue, float64(s.Loads))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.checksumMismatches, prometheus.CounterValue, float64(s.ChecksumMismatches))
	ch <- prometheus.MustNewConstMetric(c.integrityWarnings, prometheus.CounterValue, float64(s.IntegrityWarnings))
}

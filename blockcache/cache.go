package blockcache

import (
	"container/list"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/forestrie/go-skyindex/catalog"
)

// TierID identifies a tier registered with AddTier
type TierID uint16

// Key names the chain of blocks for one tier in one trixel.
type Key struct {
	Tier   TierID
	Trixel uint32
}

// BlockID addresses a block in the cache arena. Ids are reused after eviction.
type BlockID uint32

// Source supplies the records of a tier. *catalog.TierReader satisfies it.
// ReadRaw must return host order record bytes.
type Source interface {
	Count(trixel uint32) uint32
	ReadRaw(trixel uint32, first, n uint32) ([]byte, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type block struct {
	key Key
	// index is the position of the block in its chain
	index uint32
	// first is the position, within the trixel, of the first record
	first   uint32
	raw     []byte
	records []catalog.Record
	elem    *list.Element
}

func (b *block) faint() float64 {
	return b.records[len(b.records)-1].Magnitude()
}

func (b *block) bright() float64 {
	return b.records[0].Magnitude()
}

type chain struct {
	ids []BlockID
	// next is the trixel position of the first record not yet resident
	next uint32
}

type checksumKey struct {
	key   Key
	index uint32
}

type tierEntry struct {
	name string
	src  Source
}

// Cache holds blocks of catalog records for tiers too large to keep in
// memory. Each (tier, trixel) has a chain of blocks in ascending faintness,
// the tail being the faintest resident block. All blocks, from every chain,
// share one byte budget and one least recently used order.
//
// Chains are always touched from tail to head. The tail of a chain is
// therefore the least recently used of its blocks, and evicting the globally
// least recently used block only ever shortens a chain from its faint end.
//
// A Cache has a single owner. It is not safe for concurrent use.
type Cache struct {
	log   Logger
	opts  Options
	tiers []tierEntry

	blocks []*block
	free   []BlockID
	chains map[Key]*chain
	// lru holds BlockIDs, most recently used at the front
	lru  *list.List
	used int

	sums     map[checksumKey]uint64
	warnings []IntegrityWarning
	stats    Stats
}

func New(log Logger, opts ...Option) (*Cache, error) {
	c := &Cache{
		log:    log,
		opts:   NewOptions(opts...),
		chains: make(map[Key]*chain),
		lru:    list.New(),
		sums:   make(map[checksumKey]uint64),
	}
	if c.opts.Budget < int(c.opts.BlockRecords)*catalog.RecordBytes {
		return nil, fmt.Errorf("%w: budget %d, block %d bytes",
			ErrBudgetTooSmall, c.opts.Budget, int(c.opts.BlockRecords)*catalog.RecordBytes)
	}
	return c, nil
}

func (c *Cache) Options() Options { return c.opts }

// AddTier registers a source of blocks.
func (c *Cache) AddTier(name string, src Source) TierID {
	c.tiers = append(c.tiers, tierEntry{name: name, src: src})
	return TierID(len(c.tiers) - 1)
}

func (c *Cache) TierName(id TierID) string {
	if int(id) >= len(c.tiers) {
		return ""
	}
	return c.tiers[id].name
}

// Ensure makes resident, block by block in ascending faintness, the records of
// key up to and including magnitude faint. Loading stops early when the
// trixel is exhausted or when room for the next block could only be made by
// evicting a block of key itself. The returned view is valid until the next
// call that may change the cache.
func (c *Cache) Ensure(key Key, faint float64) (View, error) {
	if int(key.Tier) >= len(c.tiers) {
		return View{}, ErrUnknownTier
	}
	src := c.tiers[key.Tier].src
	total := src.Count(key.Trixel)

	ch := c.chains[key]
	if ch == nil {
		ch = &chain{}
	}
	c.touch(ch)

	loaded := 0
	for ch.next < total && (len(ch.ids) == 0 || c.tail(ch).faint() <= faint) {
		n := min(c.opts.BlockRecords, total-ch.next)
		size := int(n) * catalog.RecordBytes
		if !c.makeRoom(key, size) {
			c.log.Debugf("blockcache: %s trixel %d held at %d records, budget exhausted",
				c.tiers[key.Tier].name, key.Trixel, ch.next)
			break
		}
		raw, err := src.ReadRaw(key.Trixel, ch.next, n)
		if err != nil {
			return c.view(ch, total, faint), fmt.Errorf("%s trixel %d: %w", c.tiers[key.Tier].name, key.Trixel, err)
		}
		records, err := catalog.DecodeRecords(raw)
		if err != nil {
			return c.view(ch, total, faint), err
		}
		if len(records) == 0 {
			break
		}
		if len(ch.ids) == 0 {
			c.chains[key] = ch
		}
		c.insert(key, ch, raw, records)
		loaded++
	}

	if loaded == 0 {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return c.view(ch, total, faint), nil
}

// Resident returns a view of every resident record of key without loading
// anything or changing the recency order.
func (c *Cache) Resident(key Key) View {
	ch := c.chains[key]
	if ch == nil {
		return View{faint: math.Inf(1)}
	}
	var total uint32
	if int(key.Tier) < len(c.tiers) {
		total = c.tiers[key.Tier].src.Count(key.Trixel)
	}
	return c.view(ch, total, math.Inf(1))
}

// Chain returns the ids of the resident blocks of key, head first.
func (c *Cache) Chain(key Key) []BlockID {
	ch := c.chains[key]
	if ch == nil {
		return nil
	}
	return append([]BlockID(nil), ch.ids...)
}

// Raw returns a copy of the host order bytes of the index'th block of key.
func (c *Cache) Raw(key Key, index uint32) ([]byte, bool) {
	ch := c.chains[key]
	if ch == nil || index >= uint32(len(ch.ids)) {
		return nil, false
	}
	return append([]byte(nil), c.blocks[ch.ids[index]].raw...), true
}

// LeastRecent returns the key and chain index of the block that would be
// evicted next.
func (c *Cache) LeastRecent() (Key, uint32, bool) {
	back := c.lru.Back()
	if back == nil {
		return Key{}, 0, false
	}
	b := c.blocks[back.Value.(BlockID)]
	return b.key, b.index, true
}

// Purge evicts every block. Checksums are kept so blocks loaded afterwards
// are still verified.
func (c *Cache) Purge() {
	for back := c.lru.Back(); back != nil; back = c.lru.Back() {
		c.evict(back.Value.(BlockID))
	}
}

func (c *Cache) tail(ch *chain) *block {
	return c.blocks[ch.ids[len(ch.ids)-1]]
}

// touch marks every block of ch as most recently used, leaving the head at
// the front of the order and the tail behind the rest of the chain.
func (c *Cache) touch(ch *chain) {
	for i := len(ch.ids) - 1; i >= 0; i-- {
		c.lru.MoveToFront(c.blocks[ch.ids[i]].elem)
	}
}

func (c *Cache) makeRoom(key Key, size int) bool {
	for c.used+size > c.opts.Budget {
		back := c.lru.Back()
		if back == nil {
			return false
		}
		id := back.Value.(BlockID)
		if c.blocks[id].key == key {
			return false
		}
		c.evict(id)
	}
	return true
}

// evict releases id and every block after it in its chain.
func (c *Cache) evict(id BlockID) {
	b := c.blocks[id]
	ch := c.chains[b.key]
	for _, victim := range ch.ids[b.index:] {
		c.release(victim)
	}
	ch.ids = ch.ids[:b.index]
	ch.next = b.first
	if len(ch.ids) == 0 {
		delete(c.chains, b.key)
	}
}

func (c *Cache) release(id BlockID) {
	b := c.blocks[id]
	c.lru.Remove(b.elem)
	c.used -= len(b.raw)
	c.blocks[id] = nil
	c.free = append(c.free, id)
	c.stats.Evictions++
}

func (c *Cache) alloc(b *block) BlockID {
	if n := len(c.free); n > 0 {
		id := c.free[n-1]
		c.free = c.free[:n-1]
		c.blocks[id] = b
		return id
	}
	c.blocks = append(c.blocks, b)
	return BlockID(len(c.blocks) - 1)
}

func (c *Cache) insert(key Key, ch *chain, raw []byte, records []catalog.Record) {
	b := &block{
		key:     key,
		index:   uint32(len(ch.ids)),
		first:   ch.next,
		raw:     raw,
		records: records,
	}

	if len(ch.ids) > 0 {
		prev := c.tail(ch)
		if b.bright() < prev.faint()-c.opts.ChainTolerance {
			c.warn(IntegrityWarning{
				Kind:  WarnChainOrder,
				Key:   key,
				Index: b.index,
				Detail: fmt.Sprintf("block starts at magnitude %.2f, previous block ends at %.2f",
					b.bright(), prev.faint()),
			})
		}
	}

	sum := xxhash.Sum64(raw)
	ck := checksumKey{key: key, index: b.index}
	if prev, ok := c.sums[ck]; ok && prev != sum {
		c.stats.ChecksumMismatches++
		c.warn(IntegrityWarning{
			Kind:   WarnChecksum,
			Key:    key,
			Index:  b.index,
			Detail: fmt.Sprintf("refetched block checksum %016x, first load %016x", sum, prev),
		})
	}
	c.sums[ck] = sum

	id := c.alloc(b)
	b.elem = c.lru.PushFront(id)
	ch.ids = append(ch.ids, id)
	ch.next += uint32(len(records))
	c.used += len(raw)
	c.stats.Loads++
	c.touch(ch)
}

func (c *Cache) warn(w IntegrityWarning) {
	c.log.Infof("integrity: %s %s", c.TierName(w.Key.Tier), w)
	c.warnings = append(c.warnings, w)
	c.stats.IntegrityWarnings++
}

func (c *Cache) view(ch *chain, total uint32, faint float64) View {
	v := View{faint: faint, complete: ch.next >= total}
	for _, id := range ch.ids {
		b := c.blocks[id]
		v.parts = append(v.parts, b.records)
		if b.faint() > faint {
			v.complete = true
			break
		}
	}
	return v
}

// Stats describes the cache contents and its counters since creation.
type Stats struct {
	Blocks             int
	Chains             int
	Bytes              int
	Budget             int
	Hits               uint64
	Misses             uint64
	Loads              uint64
	Evictions          uint64
	ChecksumMismatches uint64
	IntegrityWarnings  uint64
}

func (c *Cache) Stats() Stats {
	s := c.stats
	s.Blocks = c.lru.Len()
	s.Chains = len(c.chains)
	s.Bytes = c.used
	s.Budget = c.opts.Budget
	return s
}

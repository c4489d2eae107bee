package blockcache

import (
	"fmt"
	"math"
)

type WarningKind int

const (
	// WarnChainOrder is a block starting brighter than its predecessor ended
	WarnChainOrder WarningKind = iota
	// WarnChecksum is a refetched block whose bytes differ from the first load
	WarnChecksum
	// WarnBookkeeping is arena, chain and recency order disagreeing
	WarnBookkeeping
)

func (k WarningKind) String() string {
	switch k {
	case WarnChainOrder:
		return "chain order"
	case WarnChecksum:
		return "checksum"
	case WarnBookkeeping:
		return "bookkeeping"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// IntegrityWarning reports an inconsistency found by the cache's own checks.
// Warnings are never fatal.
type IntegrityWarning struct {
	Kind   WarningKind
	Key    Key
	Index  uint32
	Detail string
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("%s: trixel %d block %d: %s", w.Kind, w.Key.Trixel, w.Index, w.Detail)
}

// Warnings returns the warnings raised while loading blocks.
func (c *Cache) Warnings() []IntegrityWarning {
	return append([]IntegrityWarning(nil), c.warnings...)
}

// Verify walks every chain and checks that magnitudes ascend within and
// across blocks, that block positions are contiguous, and that the arena,
// chains, recency order and byte count agree. It returns the warnings raised
// by the walk followed by those raised while loading.
func (c *Cache) Verify() []IntegrityWarning {
	var found []IntegrityWarning
	report := func(kind WarningKind, key Key, index uint32, format string, args ...any) {
		found = append(found, IntegrityWarning{Kind: kind, Key: key, Index: index, Detail: fmt.Sprintf(format, args...)})
	}

	chained := 0
	used := 0
	for key, ch := range c.chains {
		var pos uint32
		prevFaint := math.Inf(-1)
		for i, id := range ch.ids {
			index := uint32(i)
			if int(id) >= len(c.blocks) || c.blocks[id] == nil {
				report(WarnBookkeeping, key, index, "block %d is not in the arena", id)
				continue
			}
			b := c.blocks[id]
			chained++
			used += len(b.raw)
			if b.key != key || b.index != index {
				report(WarnBookkeeping, key, index, "block %d belongs to trixel %d index %d", id, b.key.Trixel, b.index)
			}
			if b.first != pos {
				report(WarnBookkeeping, key, index, "block starts at record %d, expected %d", b.first, pos)
			}
			pos = b.first + uint32(len(b.records))
			if b.bright() < prevFaint-c.opts.ChainTolerance {
				report(WarnChainOrder, key, index, "block starts at magnitude %.2f, previous block ends at %.2f", b.bright(), prevFaint)
			}
			for j := 1; j < len(b.records); j++ {
				if b.records[j].Mag < b.records[j-1].Mag {
					report(WarnChainOrder, key, index, "record %d is brighter than its predecessor", j)
					break
				}
			}
			prevFaint = b.faint()
		}
		if pos != ch.next {
			report(WarnBookkeeping, key, 0, "chain holds %d records, expected %d", pos, ch.next)
		}
	}
	if chained != c.lru.Len() {
		report(WarnBookkeeping, Key{}, 0, "%d chained blocks, %d in the recency order", chained, c.lru.Len())
	}
	if used != c.used {
		report(WarnBookkeeping, Key{}, 0, "chained blocks hold %d bytes, accounted %d", used, c.used)
	}
	if c.used > c.opts.Budget {
		report(WarnBookkeeping, Key{}, 0, "%d bytes resident exceeds the budget of %d", c.used, c.opts.Budget)
	}
	return append(found, c.warnings...)
}

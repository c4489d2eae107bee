package blockcache

import "errors"

var (
	ErrUnknownTier    = errors.New("blockcache: the tier is not registered with the cache")
	ErrBudgetTooSmall = errors.New("blockcache: the budget cannot hold a single block")
)

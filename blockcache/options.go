package blockcache

const (
	DefaultBudget       = 8 << 20
	DefaultBlockRecords = 256
)

// Options configure a Cache
type Options struct {
	// Budget is the most raw record bytes the cache will hold at once
	Budget int
	// BlockRecords is the record count of a full block. The last block of a
	// trixel may be shorter.
	BlockRecords uint32
	// ChainTolerance is how far, in magnitudes, a block may start brighter
	// than its predecessor ended before it is reported as an integrity problem.
	ChainTolerance float64
}

type Option func(*Options)

func NewOptions(opts ...Option) Options {
	o := Options{
		Budget:         DefaultBudget,
		BlockRecords:   DefaultBlockRecords,
		ChainTolerance: 0.016,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithBudget(bytes int) Option {
	return func(o *Options) {
		o.Budget = bytes
	}
}

func WithBlockRecords(n uint32) Option {
	return func(o *Options) {
		if n > 0 {
			o.BlockRecords = n
		}
	}
}

func WithChainTolerance(mag float64) Option {
	return func(o *Options) {
		o.ChainTolerance = mag
	}
}

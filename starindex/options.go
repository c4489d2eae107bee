package starindex

import (
	"cmp"
	"slices"

	"github.com/forestrie/go-skyindex/blockcache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/forestrie/go-skyindex/starindex"

	// DefaultDriftBound is how far, in arc seconds, a record outside every
	// motion band may drift before a full reindex is due.
	DefaultDriftBound   = 45.0
	DefaultDrawBuffer   = 0.05
	DefaultSearchBuffer = 0.5

	DefaultZoomA = 3.7
	DefaultZoomB = 2.222
	DefaultZoomC = 3.5
)

// DefaultBandCutoffs are the proper motion cutoffs, in mas/yr, of the fast
// mover bands.
var DefaultBandCutoffs = []float64{840, 304}

type Options struct {
	// Epoch is the epoch of the initial index, J2000 by default
	Epoch       Epoch
	BandCutoffs []float64
	// DriftBound is in arc seconds
	DriftBound float64
	// DrawBuffer widens the viewport radius, in degrees, when choosing cells
	DrawBuffer float64
	// SearchBuffer widens the nearest object radius, in degrees
	SearchBuffer float64

	ZoomA float64
	ZoomB float64
	ZoomC float64

	CacheOptions []blockcache.Option
	Tracer       trace.Tracer
}

type Option func(*Options)

func NewOptions(opts ...Option) Options {
	o := Options{
		Epoch:        J2000,
		BandCutoffs:  slices.Clone(DefaultBandCutoffs),
		DriftBound:   DefaultDriftBound,
		DrawBuffer:   DefaultDrawBuffer,
		SearchBuffer: DefaultSearchBuffer,
		ZoomA:        DefaultZoomA,
		ZoomB:        DefaultZoomB,
		ZoomC:        DefaultZoomC,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	// fastest band first
	slices.SortFunc(o.BandCutoffs, func(a, b float64) int { return cmp.Compare(b, a) })
	return o
}

func WithEpoch(e Epoch) Option {
	return func(o *Options) {
		o.Epoch = e
	}
}

// WithBandCutoffs replaces the fast mover band cutoffs. An empty list disables
// incremental reindexing.
func WithBandCutoffs(masPerYear ...float64) Option {
	return func(o *Options) {
		o.BandCutoffs = slices.Clone(masPerYear)
	}
}

func WithDriftBound(arcsec float64) Option {
	return func(o *Options) {
		o.DriftBound = arcsec
	}
}

func WithDrawBuffer(deg float64) Option {
	return func(o *Options) {
		o.DrawBuffer = deg
	}
}

func WithSearchBuffer(deg float64) Option {
	return func(o *Options) {
		o.SearchBuffer = deg
	}
}

// WithZoomConstants sets a, b and c of ZoomMagnitudeLimit.
func WithZoomConstants(a, b, c float64) Option {
	return func(o *Options) {
		o.ZoomA, o.ZoomB, o.ZoomC = a, b, c
	}
}

func WithCacheOptions(opts ...blockcache.Option) Option {
	return func(o *Options) {
		o.CacheOptions = append(o.CacheOptions, opts...)
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) {
		o.Tracer = tracer
	}
}

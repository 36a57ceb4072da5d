package heightfield

import (
	"fmt"

	"github.com/gogpu/heightfield/internal/invert"
	"github.com/gogpu/heightfield/internal/parallel"
)

// Option configures a Converter during creation.
//
// Example:
//
//	// Passthrough, dumping all four channels
//	c, err := heightfield.NewConverter(heightfield.WithChannelRange(0, 3))
//
//	// Heightfield inversion with the ocean's spatial size
//	c, err := heightfield.NewConverter(heightfield.WithHeightfield(50))
type Option func(*options)

// options holds optional configuration for Converter creation.
type options struct {
	firstChannel int
	lastChannel  int
	heightfield  bool
	scale        float32
	workers      int
	bandRows     int
	pool         *BufferPool
	inverter     invert.Inverter
}

// defaultOptions returns the default converter options: passthrough,
// channel range [1,1].
func defaultOptions() options {
	return options{
		firstChannel: 1,
		lastChannel:  1,
		bandRows:     parallel.DefaultBandRows,
	}
}

// validate checks the options for consistency.
func (o *options) validate() error {
	if o.firstChannel > o.lastChannel || o.firstChannel < 0 || o.lastChannel > 3 {
		return fmt.Errorf("%w: channel range [%d,%d]", ErrInvalidArgument, o.firstChannel, o.lastChannel)
	}
	if o.heightfield && !(o.scale > 0) {
		return fmt.Errorf("%w: spatial scale %v", ErrInvalidArgument, o.scale)
	}
	if o.inverter.Damping < 0 || o.inverter.Damping >= 2 {
		return fmt.Errorf("%w: damping %v", ErrInvalidArgument, o.inverter.Damping)
	}
	return nil
}

// WithChannelRange selects the inclusive channel range [first, last]
// written to the text table. Both must lie in [0,3] with first <= last.
func WithChannelRange(first, last int) Option {
	return func(o *options) {
		o.firstChannel = first
		o.lastChannel = last
	}
}

// WithHeightfield enables heightfield mode. scale converts displacement
// units to UV units; for a simulation tile of physical size S it is S.
func WithHeightfield(scale float32) Option {
	return func(o *options) {
		o.heightfield = true
		o.scale = scale
	}
}

// WithWorkers sets the number of goroutines used per conversion.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBandRows sets the number of rows processed as one unit of work.
func WithBandRows(rows int) Option {
	return func(o *options) {
		o.bandRows = rows
	}
}

// WithBufferPool makes the converter take output buffers from p.
// Callers return them with Result.Release.
func WithBufferPool(p *BufferPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithSolver overrides the inversion damping factor, iteration cap and
// squared tolerance. Zero values keep the defaults.
func WithSolver(damping float32, maxIterations int, epsilonSq float32) Option {
	return func(o *options) {
		o.inverter.Damping = damping
		o.inverter.MaxIterations = maxIterations
		o.inverter.EpsilonSq = epsilonSq
	}
}

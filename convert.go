package heightfield

import (
	"context"
	"log/slog"

	"github.com/gogpu/heightfield/internal/image"
	"github.com/gogpu/heightfield/internal/invert"
	"github.com/gogpu/heightfield/internal/parallel"
)

// Height remap applied when storing heights in heightfield mode:
//
//	stored = HeightBias + raw*HeightGain
//
// The constants are a calibration for typical ocean displacement
// magnitudes (about ±2 units) so that heights fit an output encoding that
// holds [0,1]; they are not a normalization derived from the data.
const (
	HeightBias float32 = 0.5
	HeightGain float32 = 0.25
)

// Solver defaults, exported for callers comparing Result iteration counts.
const (
	MaxIterations = invert.MaxIterations
	Damping       = invert.Damping
	EpsilonSq     = invert.EpsilonSq
)

// Mode selects what a Converter computes.
type Mode uint8

const (
	// ModePassthrough copies the input and reduces its height channel.
	ModePassthrough Mode = iota

	// ModeHeightfield inverts the horizontal displacement at every pixel
	// and stores the height found at the source position.
	ModeHeightfield
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePassthrough:
		return "passthrough"
	case ModeHeightfield:
		return "heightfield"
	default:
		return "unknown"
	}
}

// Converter turns displacement buffers into output buffers and statistics.
// A Converter owns a worker pool; call Close when done. Convert may be
// called from multiple goroutines; Close waits for the band passes already
// running.
type Converter struct {
	opts    options
	workers *parallel.WorkerPool
}

// NewConverter creates a converter.
// Returns ErrInvalidArgument for an invalid channel range or scale.
func NewConverter(opts ...Option) (*Converter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	o.inverter.Scale = o.scale

	return &Converter{
		opts:    o,
		workers: parallel.NewWorkerPool(o.workers),
	}, nil
}

// Close stops the converter's workers. Close is safe to call multiple times.
func (c *Converter) Close() {
	c.workers.Close()
}

// Mode returns the conversion mode.
func (c *Converter) Mode() Mode {
	if c.opts.heightfield {
		return ModeHeightfield
	}
	return ModePassthrough
}

// ChannelRange returns the inclusive channel range written to tables.
func (c *Converter) ChannelRange() (first, last int) {
	return c.opts.firstChannel, c.opts.lastChannel
}

// Result is the outcome of one conversion.
type Result struct {
	// Output has the shape of the input. In passthrough mode it holds a
	// copy of the input; in heightfield mode it holds
	// {0, HeightBias + height*HeightGain, 0, alpha} per pixel.
	Output *Buffer

	// Values holds the per-pixel values emitted to the text table as
	// Vector4Float. Heights are raw (not remapped).
	Values *Buffer

	// Stats holds the reduction over all pixels.
	Stats Stats

	// Mode is the mode the result was computed in.
	Mode Mode

	firstChannel int
	lastChannel  int
	pool         *BufferPool
}

// Release returns Output and Values to the converter's buffer pool, if one
// was configured. The result must not be used afterwards.
func (r *Result) Release() {
	if r.pool == nil {
		return
	}
	r.pool.Put(r.Output)
	r.pool.Put(r.Values)
	r.Output, r.Values = nil, nil
}

// Convert processes every pixel of in.
//
// Rows are split into bands that run in parallel; each band reduces into
// its own Stats and the band results are merged at the end. in is only
// read. Returns ErrInvalidBuffer for a buffer without storage and ctx.Err()
// if ctx is canceled before all bands started.
func (c *Converter) Convert(ctx context.Context, in *Buffer) (*Result, error) {
	sampler, err := image.NewSampler(in)
	if err != nil {
		return nil, err
	}

	out, err := c.allocate(in.Width(), in.Height(), in.Encoding())
	if err != nil {
		return nil, err
	}
	values, err := c.allocate(in.Width(), in.Height(), image.EncodingVector4Float)
	if err != nil {
		if c.opts.pool != nil {
			c.opts.pool.Put(out)
		}
		return nil, err
	}

	res := &Result{
		Output:       out,
		Values:       values,
		Mode:         c.Mode(),
		firstChannel: c.opts.firstChannel,
		lastChannel:  c.opts.lastChannel,
		pool:         c.opts.pool,
	}

	bands := parallel.Bands(in.Height(), c.opts.bandRows)
	local := make([]Stats, len(bands))
	canceled := make([]bool, len(bands))

	log := Logger()
	log.Debug("heightfield: convert",
		slog.Int("width", in.Width()),
		slog.Int("height", in.Height()),
		slog.String("encoding", in.Encoding().String()),
		slog.String("mode", res.Mode.String()),
		slog.Int("bands", len(bands)),
		slog.Int("workers", c.workers.Workers()))

	c.workers.ForEachBand(bands, func(b parallel.Band) {
		if ctx.Err() != nil {
			canceled[b.Index] = true
			return
		}
		local[b.Index] = c.convertBand(sampler, out, values, b)
	})

	for _, skipped := range canceled {
		if skipped {
			res.Release()
			return nil, ctx.Err()
		}
	}

	res.Stats = NewStats()
	for _, s := range local {
		res.Stats.Merge(s)
	}

	log.Info("heightfield: converted",
		slog.Int("width", in.Width()),
		slog.Int("height", in.Height()),
		slog.String("mode", res.Mode.String()),
		slog.Float64("averageY", float64(res.Stats.Average())),
		slog.Float64("minY", float64(res.Stats.Min)),
		slog.Float64("maxY", float64(res.Stats.Max)),
		slog.Float64("averageIterations", res.Stats.AverageIterations()))
	if res.Stats.NaN > 0 {
		log.Warn("heightfield: NaN heights skipped",
			slog.Int("pixels", res.Stats.NaN))
	}
	if res.Stats.Unconverged > 0 {
		log.Warn("heightfield: inversion did not converge",
			slog.Int("pixels", res.Stats.Unconverged),
			slog.Int("maxIterations", MaxIterations))
	}

	return res, nil
}

// allocate returns a zeroed buffer from the pool or a new one.
func (c *Converter) allocate(width, height int, encoding Encoding) (*Buffer, error) {
	if c.opts.pool != nil {
		return c.opts.pool.Get(width, height, encoding)
	}
	return image.NewBuffer(width, height, encoding)
}

// convertBand processes rows [b.Y0, b.Y1) and returns their reduction.
// Every coordinate written lies inside the band, so bands never overlap.
func (c *Converter) convertBand(s *image.Sampler, out, values *Buffer, b parallel.Band) Stats {
	in := s.Buffer()
	fw, fh := float32(in.Width()), float32(in.Height())
	st := NewStats()

	for y := b.Y0; y < b.Y1; y++ {
		v := (0.5 + float32(y)) / fh
		for x := range in.Width() {
			var emit Channels
			if c.opts.heightfield {
				u := (0.5 + float32(x)) / fw
				res := c.opts.inverter.Invert(s, image.UV{u, v})
				src := s.SampleUV(res.UV)
				raw := src[1]

				out.SetAt(x, y, Channels{0, HeightBias + raw*HeightGain, 0, src[3]})
				emit = Channels{0, raw, 0, src[3]}
				st.AddIterations(res.Iterations, res.Converged)
			} else {
				emit = in.At(x, y)
				out.SetAt(x, y, emit)
			}
			values.SetAt(x, y, emit)
			st.Add(emit[1])
		}
	}
	return st
}

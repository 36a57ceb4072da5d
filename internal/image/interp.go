package image

import (
	"math"

	"golang.org/x/image/math/f32"
)

// UV is a normalized texture coordinate. UV space is a torus: each axis is
// periodic with period 1.
type UV = f32.Vec2

// InterpolationMode defines how texture sampling is performed.
type InterpolationMode uint8

const (
	// InterpNearest selects the texel containing the coordinate.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between 4 neighboring texels.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// Sampler samples a Buffer at fractional UV coordinates, wrapping both axes.
//
// Texel i covers the continuous range centered at (i+0.5)/N, so sampling a
// texel center reproduces the stored value. Non-finite coordinates sample
// near texel 0 instead of failing; non-finite texel values propagate
// through the blend. The sampler only reads the
// buffer; any number of goroutines may share one.
type Sampler struct {
	buf  *Buffer
	mode InterpolationMode
	fw   float32
	fh   float32
}

// NewSampler creates a bilinear sampler over buf.
// Returns ErrInvalidBuffer if buf has no backing store.
func NewSampler(buf *Buffer) (*Sampler, error) {
	return NewSamplerMode(buf, InterpBilinear)
}

// NewSamplerMode creates a sampler over buf using the given mode.
func NewSamplerMode(buf *Buffer, mode InterpolationMode) (*Sampler, error) {
	if !buf.IsValid() {
		return nil, ErrInvalidBuffer
	}
	return &Sampler{
		buf:  buf,
		mode: mode,
		fw:   float32(buf.width),
		fh:   float32(buf.height),
	}, nil
}

// Buffer returns the sampled buffer.
func (s *Sampler) Buffer() *Buffer {
	return s.buf
}

// Mode returns the interpolation mode.
func (s *Sampler) Mode() InterpolationMode {
	return s.mode
}

// Sample returns the channel vector at (u, v).
func (s *Sampler) Sample(u, v float32) Channels {
	if s.mode == InterpNearest {
		return s.nearest(u, v)
	}
	return s.bilinear(u, v)
}

// SampleUV is Sample taking a UV pair.
func (s *Sampler) SampleUV(p UV) Channels {
	return s.Sample(p[0], p[1])
}

// bilinear blends the four texels around (u, v).
func (s *Sampler) bilinear(u, v float32) Channels {
	x0, x1, fx := wrapAxis(u, s.fw, s.buf.width)
	y0, y1, fy := wrapAxis(v, s.fh, s.buf.height)

	s00 := s.buf.At(x0, y0)
	s01 := s.buf.At(x1, y0)
	s10 := s.buf.At(x0, y1)
	s11 := s.buf.At(x1, y1)

	var out Channels
	for i := range out {
		out[i] = (1-fy)*((1-fx)*s00[i]+fx*s01[i]) + fy*((1-fx)*s10[i]+fx*s11[i])
	}
	return out
}

// nearest returns the texel whose area contains (u, v).
func (s *Sampler) nearest(u, v float32) Channels {
	x := wrapIndex(u, s.fw, s.buf.width)
	y := wrapIndex(v, s.fh, s.buf.height)
	return s.buf.At(x, y)
}

// wrapAxis converts a normalized coordinate to the two texel indices that
// straddle it and the blend weight of the second one.
func wrapAxis(t, size float32, n int) (i0, i1 int, frac float32) {
	x := t*size - 0.5
	x = float32(math.Mod(float64(x), float64(size)))
	if x < 0 {
		x += size
	}
	// x+size can round up to exactly size for tiny negative x. Non-finite
	// coordinates (NaN, ±Inf) leave Mod as NaN; both map to texel 0.
	if !(x >= 0 && x < size) {
		x = 0
	}
	i0 = int(x)
	frac = x - float32(i0)
	i1 = (i0 + 1) % n
	return i0, i1, frac
}

// wrapIndex converts a normalized coordinate to the index of the texel
// that contains it.
func wrapIndex(t, size float32, n int) int {
	x := float32(math.Mod(float64(t*size), float64(size)))
	if x < 0 {
		x += size
	}
	if !(x >= 0 && x < size) {
		return 0
	}
	i := int(x)
	if i >= n {
		i = 0
	}
	return i
}

// SampleBilinear samples buf at (u, v) with toroidal wrapping.
// Returns ErrInvalidBuffer if buf has no backing store.
func SampleBilinear(buf *Buffer, u, v float32) (Channels, error) {
	s, err := NewSampler(buf)
	if err != nil {
		return Channels{}, err
	}
	return s.bilinear(u, v), nil
}

// SampleNearest samples buf at (u, v) without interpolation, with toroidal
// wrapping. Returns ErrInvalidBuffer if buf has no backing store.
func SampleNearest(buf *Buffer, u, v float32) (Channels, error) {
	s, err := NewSamplerMode(buf, InterpNearest)
	if err != nil {
		return Channels{}, err
	}
	return s.nearest(u, v), nil
}

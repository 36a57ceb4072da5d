package image

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Channels is a per-pixel channel vector.
//
// By convention channel 0 is the X displacement, channel 1 the vertical (Y)
// displacement, channel 2 the Z displacement and channel 3 alpha.
type Channels = f32.Vec4

// pixelStore is the backing storage of a Buffer. Each encoding has exactly
// one implementation; index is the pixel index y*width+x.
type pixelStore interface {
	get(index int) Channels
	set(index int, c Channels)
	channels() int
	clone() pixelStore
	zeroed() pixelStore
	reset()
}

// scalarStore backs EncodingScalar1.
type scalarStore []float32

func (s scalarStore) get(i int) Channels    { return Channels{s[i], 0, 0, 0} }
func (s scalarStore) set(i int, c Channels) { s[i] = c[0] }
func (s scalarStore) channels() int         { return 1 }
func (s scalarStore) clone() pixelStore     { return append(scalarStore(nil), s...) }
func (s scalarStore) zeroed() pixelStore    { return make(scalarStore, len(s)) }
func (s scalarStore) reset()                { clear(s) }

// vectorStore backs EncodingVector4Float.
type vectorStore []float32

func (s vectorStore) get(i int) Channels {
	o := i * 4
	return Channels{s[o], s[o+1], s[o+2], s[o+3]}
}

func (s vectorStore) set(i int, c Channels) {
	o := i * 4
	s[o], s[o+1], s[o+2], s[o+3] = c[0], c[1], c[2], c[3]
}

func (s vectorStore) channels() int      { return 4 }
func (s vectorStore) clone() pixelStore  { return append(vectorStore(nil), s...) }
func (s vectorStore) zeroed() pixelStore { return make(vectorStore, len(s)) }
func (s vectorStore) reset()             { clear(s) }

// quantizedStore backs EncodingColor4Quantized8, stored R, G, B, A.
type quantizedStore []uint8

func (s quantizedStore) get(i int) Channels {
	o := i * 4
	return Channels{
		float32(s[o]) / 255,
		float32(s[o+1]) / 255,
		float32(s[o+2]) / 255,
		float32(s[o+3]) / 255,
	}
}

func (s quantizedStore) set(i int, c Channels) {
	o := i * 4
	for k := range 4 {
		s[o+k] = quantize(c[k])
	}
}

func (s quantizedStore) channels() int      { return 4 }
func (s quantizedStore) clone() pixelStore  { return append(quantizedStore(nil), s...) }
func (s quantizedStore) zeroed() pixelStore { return make(quantizedStore, len(s)) }
func (s quantizedStore) reset()             { clear(s) }

// quantize maps v in [0,1] to the nearest 8-bit level. Values outside the
// range are clamped, NaN maps to 0.
func quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// newStore allocates zeroed storage for n pixels of the given encoding.
// Returns nil for unsupported encodings.
func newStore(e Encoding, n int) pixelStore {
	switch e {
	case EncodingScalar1:
		return make(scalarStore, n)
	case EncodingColor4Quantized8:
		return make(quantizedStore, n*4)
	case EncodingVector4Float:
		return make(vectorStore, n*4)
	default:
		return nil
	}
}

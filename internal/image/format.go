// Package image provides the pixel buffers, samplers and codecs used by
// heightfield.
//
// Buffers hold exactly one of three pixel encodings. Pixels are read and
// written as channel vectors regardless of how they are stored, so the
// sampler and the converter never branch on the encoding.
package image

// Encoding represents a pixel storage encoding.
type Encoding uint8

const (
	// EncodingScalar1 is a single 32-bit float per pixel.
	EncodingScalar1 Encoding = iota

	// EncodingColor4Quantized8 is four 8-bit channels per pixel (R, G, B, A).
	// Channel values map to [0,1] by dividing by 255.
	EncodingColor4Quantized8

	// EncodingVector4Float is four 32-bit floats per pixel.
	// This is the encoding of displacement maps.
	EncodingVector4Float

	// encodingCount is the number of encodings (for internal use).
	encodingCount
)

// EncodingInfo contains metadata about a pixel encoding.
type EncodingInfo struct {
	// Channels is the number of stored channels.
	Channels int

	// BytesPerChannel is the size of one stored channel element.
	BytesPerChannel int

	// IsFloat indicates the channels are stored as IEEE 754 floats.
	IsFloat bool
}

// encodingInfoTable contains metadata for each encoding.
var encodingInfoTable = [encodingCount]EncodingInfo{
	EncodingScalar1: {
		Channels:        1,
		BytesPerChannel: 4,
		IsFloat:         true,
	},
	EncodingColor4Quantized8: {
		Channels:        4,
		BytesPerChannel: 1,
		IsFloat:         false,
	},
	EncodingVector4Float: {
		Channels:        4,
		BytesPerChannel: 4,
		IsFloat:         true,
	},
}

// Info returns the EncodingInfo for this encoding.
func (e Encoding) Info() EncodingInfo {
	if e >= encodingCount {
		return EncodingInfo{}
	}
	return encodingInfoTable[e]
}

// Channels returns the number of stored channels.
func (e Encoding) Channels() int {
	return e.Info().Channels
}

// BytesPerPixel returns the number of bytes per pixel.
func (e Encoding) BytesPerPixel() int {
	info := e.Info()
	return info.Channels * info.BytesPerChannel
}

// BitsPerPixel returns the number of bits per pixel.
func (e Encoding) BitsPerPixel() int {
	return e.BytesPerPixel() * 8
}

// IsFloat returns true if channels are stored as floats.
func (e Encoding) IsFloat() bool {
	return e.Info().IsFloat
}

// IsValid returns true if the encoding is one of the supported encodings.
func (e Encoding) IsValid() bool {
	return e < encodingCount
}

// String returns a string representation of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingScalar1:
		return "Scalar1"
	case EncodingColor4Quantized8:
		return "Color4Quantized8"
	case EncodingVector4Float:
		return "Vector4Float"
	default:
		return "Unknown"
	}
}

// ImageBytes calculates the total number of bytes needed for an image.
func (e Encoding) ImageBytes(width, height int) int {
	return width * height * e.BytesPerPixel()
}

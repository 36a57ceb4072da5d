package heightfield

import (
	"io"

	"github.com/gogpu/heightfield/internal/image"
)

// Buffer is a raster of a fixed pixel encoding. See NewBuffer.
type Buffer = image.Buffer

// Encoding is a pixel storage encoding.
type Encoding = image.Encoding

// Channels is a per-pixel channel vector: X displacement, Y (height),
// Z displacement, alpha.
type Channels = image.Channels

// UV is a normalized, toroidally wrapping texture coordinate.
type UV = image.UV

// Container identifies an on-disk image format.
type Container = image.Container

// EncodeOption configures image encoding.
type EncodeOption = image.EncodeOption

// BufferPool reuses buffers of identical shape across conversions.
type BufferPool = image.Pool

// Supported pixel encodings.
const (
	Scalar1          = image.EncodingScalar1
	Color4Quantized8 = image.EncodingColor4Quantized8
	Vector4Float     = image.EncodingVector4Float
)

// Supported containers.
const (
	ContainerEXR  = image.ContainerEXR
	ContainerPNG  = image.ContainerPNG
	ContainerTIFF = image.ContainerTIFF
	ContainerBMP  = image.ContainerBMP
)

// NewBuffer allocates a zeroed buffer.
// Returns ErrInvalidDimensions for non-positive sizes and
// ErrUnsupportedEncoding for unknown encodings.
func NewBuffer(width, height int, encoding Encoding) (*Buffer, error) {
	return image.NewBuffer(width, height, encoding)
}

// NewBufferPool creates a buffer pool keeping at most maxPerShape buffers
// of each shape.
func NewBufferPool(maxPerShape int) *BufferPool {
	return image.NewPool(maxPerShape)
}

// Load reads and decodes an image file. The encoding comes from the file.
func Load(path string) (*Buffer, error) {
	return image.Load(path)
}

// Decode decodes an image from r.
func Decode(r io.Reader) (*Buffer, error) {
	return image.Decode(r)
}

// ContainerFromPath returns the container implied by a file extension.
func ContainerFromPath(path string) Container {
	return image.ContainerFromPath(path)
}

// WithHalfFloat writes EXR output as 16-bit half floats.
func WithHalfFloat() EncodeOption {
	return image.WithHalfFloat()
}

// SampleBilinear samples buf at (u, v) with toroidal wrapping.
func SampleBilinear(buf *Buffer, u, v float32) (Channels, error) {
	return image.SampleBilinear(buf, u, v)
}

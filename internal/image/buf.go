package image

import "errors"

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrUnsupportedEncoding is returned when the encoding has no channel layout.
	ErrUnsupportedEncoding = errors.New("image: unsupported encoding")

	// ErrOutOfRange is returned when pixel coordinates are outside buffer bounds.
	ErrOutOfRange = errors.New("image: coordinates out of range")

	// ErrInvalidBuffer is returned when a buffer has no backing store.
	ErrInvalidBuffer = errors.New("image: buffer has no backing store")
)

// Buffer is a raster of a fixed pixel encoding.
//
// Pixels are stored row-major in a contiguous backing store sized
// width*height*channels. The encoding never changes after creation.
// The zero Buffer has no backing store; every accessor reports
// ErrInvalidBuffer for it.
//
// Thread safety: concurrent access to disjoint pixels is safe. Concurrent
// writes to the same pixel require external synchronization.
type Buffer struct {
	store    pixelStore
	width    int
	height   int
	encoding Encoding
}

// NewBuffer creates a zeroed buffer with the given dimensions and encoding.
// Returns an error if dimensions are invalid or the encoding is unknown.
func NewBuffer(width, height int, encoding Encoding) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !encoding.IsValid() {
		return nil, ErrUnsupportedEncoding
	}

	return &Buffer{
		store:    newStore(encoding, width*height),
		width:    width,
		height:   height,
		encoding: encoding,
	}, nil
}

// CloneShape creates a zeroed buffer with the same width, height and
// encoding. Pixel content is not copied; use Clone for that.
func (b *Buffer) CloneShape() *Buffer {
	if b.store == nil {
		return &Buffer{}
	}
	return &Buffer{
		store:    b.store.zeroed(),
		width:    b.width,
		height:   b.height,
		encoding: b.encoding,
	}
}

// Clone creates a deep copy of the buffer, pixel content included.
func (b *Buffer) Clone() *Buffer {
	if b.store == nil {
		return &Buffer{}
	}
	return &Buffer{
		store:    b.store.clone(),
		width:    b.width,
		height:   b.height,
		encoding: b.encoding,
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Bounds returns the buffer dimensions as (width, height).
func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

// Encoding returns the pixel encoding.
func (b *Buffer) Encoding() Encoding {
	return b.encoding
}

// BitsPerPixel returns the storage size of one pixel in bits.
func (b *Buffer) BitsPerPixel() int {
	return b.encoding.BitsPerPixel()
}

// Channels returns the number of stored channels per pixel.
func (b *Buffer) Channels() int {
	if b.store == nil {
		return 0
	}
	return b.store.channels()
}

// IsValid returns true if the buffer has a backing store.
func (b *Buffer) IsValid() bool {
	return b != nil && b.store != nil
}

// SameShape reports whether o has the same width, height and encoding.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.width == o.width && b.height == o.height && b.encoding == o.encoding
}

// index returns the pixel index of (x, y), validating the buffer and bounds.
func (b *Buffer) index(x, y int) (int, error) {
	if !b.IsValid() {
		return 0, ErrInvalidBuffer
	}
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, ErrOutOfRange
	}
	return y*b.width + x, nil
}

// Get returns the channel vector at (x, y).
//
// Scalar1 returns the stored value in channel 0 and zero elsewhere.
// Color4Quantized8 returns each 8-bit channel divided by 255.
// Vector4Float returns the stored floats.
func (b *Buffer) Get(x, y int) (Channels, error) {
	i, err := b.index(x, y)
	if err != nil {
		return Channels{}, err
	}
	return b.store.get(i), nil
}

// Set writes the channel vector at (x, y).
// Scalar1 keeps channel 0 only. Color4Quantized8 clamps each channel to
// [0,1] and rounds to the nearest 8-bit level.
func (b *Buffer) Set(x, y int, c Channels) error {
	i, err := b.index(x, y)
	if err != nil {
		return err
	}
	b.store.set(i, c)
	return nil
}

// At reads (x, y) without validation. The caller guarantees a valid
// buffer and in-bounds coordinates; anything else panics.
func (b *Buffer) At(x, y int) Channels {
	return b.store.get(y*b.width + x)
}

// SetAt writes (x, y) without validation, under the same contract as At.
func (b *Buffer) SetAt(x, y int, c Channels) {
	b.store.set(y*b.width+x, c)
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Channels) {
	if !b.IsValid() {
		return
	}
	for i := range b.width * b.height {
		b.store.set(i, c)
	}
}

// Clear sets all pixels to zero.
func (b *Buffer) Clear() {
	if !b.IsValid() {
		return
	}
	b.store.reset()
}

// Row returns the channel vectors of row y, appended to dst.
// Returns ErrOutOfRange if y is outside the buffer.
func (b *Buffer) Row(dst []Channels, y int) ([]Channels, error) {
	if !b.IsValid() {
		return dst, ErrInvalidBuffer
	}
	if y < 0 || y >= b.height {
		return dst, ErrOutOfRange
	}
	start := y * b.width
	for i := start; i < start+b.width; i++ {
		dst = append(dst, b.store.get(i))
	}
	return dst, nil
}

// ByteSize returns the size of the backing store in bytes.
func (b *Buffer) ByteSize() int {
	if !b.IsValid() {
		return 0
	}
	return b.encoding.ImageBytes(b.width, b.height)
}

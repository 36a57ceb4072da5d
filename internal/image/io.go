package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/mrjoshuak/go-openexr/exr"
)

// I/O errors.
var (
	// ErrDecode is returned when input data cannot be decoded.
	ErrDecode = errors.New("image: decode failed")

	// ErrIO is returned when a file cannot be read or written.
	ErrIO = errors.New("image: i/o failed")

	// ErrUnsupportedFormat is returned when the container format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Container identifies an on-disk image format.
type Container uint8

const (
	// ContainerUnknown is an unrecognized format.
	ContainerUnknown Container = iota

	// ContainerEXR is OpenEXR (float channels).
	ContainerEXR

	// ContainerPNG is PNG (8-bit channels).
	ContainerPNG

	// ContainerTIFF is TIFF (8-bit channels).
	ContainerTIFF

	// ContainerBMP is BMP (8-bit channels).
	ContainerBMP
)

// String returns a string representation of the container.
func (c Container) String() string {
	switch c {
	case ContainerEXR:
		return "EXR"
	case ContainerPNG:
		return "PNG"
	case ContainerTIFF:
		return "TIFF"
	case ContainerBMP:
		return "BMP"
	default:
		return "Unknown"
	}
}

// Ext returns the canonical file extension, including the dot.
func (c Container) Ext() string {
	switch c {
	case ContainerEXR:
		return ".exr"
	case ContainerPNG:
		return ".png"
	case ContainerTIFF:
		return ".tif"
	case ContainerBMP:
		return ".bmp"
	default:
		return ""
	}
}

// ContainerFromPath returns the container implied by the file extension.
func ContainerFromPath(path string) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exr":
		return ContainerEXR
	case ".png":
		return ContainerPNG
	case ".tif", ".tiff":
		return ContainerTIFF
	case ".bmp":
		return ContainerBMP
	default:
		return ContainerUnknown
	}
}

// exrMagic is the OpenEXR file signature.
var exrMagic = []byte{0x76, 0x2f, 0x31, 0x01}

// DetectContainer returns the container of encoded data from its signature.
func DetectContainer(data []byte) Container {
	switch {
	case bytes.HasPrefix(data, exrMagic):
		return ContainerEXR
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return ContainerPNG
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return ContainerTIFF
	case bytes.HasPrefix(data, []byte("BM")):
		return ContainerBMP
	default:
		return ContainerUnknown
	}
}

// Load reads and decodes the image file at path.
// The encoding is taken from the file: single-channel EXR yields Scalar1,
// other EXR files Vector4Float, 8-bit formats Color4Quantized8.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return DecodeBytes(data)
}

// Decode decodes an image from the given reader.
func Decode(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an image from a byte slice, detecting the container
// from its signature.
func DecodeBytes(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrEmptyData)
	}

	var (
		buf *Buffer
		err error
	)
	switch DetectContainer(data) {
	case ContainerEXR:
		buf, err = decodeEXR(data)
	case ContainerPNG, ContainerTIFF, ContainerBMP:
		buf, err = decodeStd(data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return buf, nil
}

// decodeStd decodes an 8-bit container into a Color4Quantized8 buffer.
func decodeStd(data []byte) (*Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromStdImage(img)
}

// FromStdImage creates a Color4Quantized8 buffer from a standard library image.
func FromStdImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewBuffer(width, height, EncodingColor4Quantized8)
	if err != nil {
		return nil, err
	}
	pix := buf.store.(quantizedStore)

	// Fast path for NRGBA images
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			srcStart := y * nrgba.Stride
			copy(pix[y*width*4:(y+1)*width*4], nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf, nil
	}

	// Generic path, un-premultiplying through the NRGBA model
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			o := (y*width + x) * 4
			pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf, nil
}

// ToStdImage converts the buffer to a standard library image.
// Scalar1 becomes *image.Gray, the other encodings *image.NRGBA.
// Float channels are clamped to [0,1] and quantized.
func (b *Buffer) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch s := b.store.(type) {
	case scalarStore:
		gray := image.NewGray(rect)
		for i, v := range s {
			gray.Pix[i] = quantize(v)
		}
		return gray
	case quantizedStore:
		nrgba := image.NewNRGBA(rect)
		copy(nrgba.Pix, s)
		return nrgba
	default:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			for x := range b.width {
				c := b.At(x, y)
				o := y*nrgba.Stride + x*4
				for k := range 4 {
					nrgba.Pix[o+k] = quantize(c[k])
				}
			}
		}
		return nrgba
	}
}

// EncodeOption configures image encoding.
type EncodeOption func(*encodeOptions)

// encodeOptions holds optional configuration for Encode and Save.
type encodeOptions struct {
	halfFloat       bool
	exrCompression  exr.Compression
	tiffCompression tiff.CompressionType
}

// defaultEncodeOptions returns the default encode options.
func defaultEncodeOptions() encodeOptions {
	return encodeOptions{
		exrCompression:  exr.CompressionZIP,
		tiffCompression: tiff.Deflate,
	}
}

// WithHalfFloat writes EXR channels as 16-bit half floats instead of
// 32-bit floats.
func WithHalfFloat() EncodeOption {
	return func(o *encodeOptions) {
		o.halfFloat = true
	}
}

// WithEXRCompression sets the EXR compression scheme (default ZIP).
func WithEXRCompression(c exr.Compression) EncodeOption {
	return func(o *encodeOptions) {
		o.exrCompression = c
	}
}

// WithTIFFCompression sets the TIFF compression scheme (default Deflate).
func WithTIFFCompression(c tiff.CompressionType) EncodeOption {
	return func(o *encodeOptions) {
		o.tiffCompression = c
	}
}

// Save encodes the buffer to path. The container is chosen by extension.
func (b *Buffer) Save(path string, opts ...EncodeOption) error {
	c := ContainerFromPath(path)
	if c == ContainerUnknown {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if !b.IsValid() {
		return ErrInvalidBuffer
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := b.Encode(f, c, opts...); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Encode writes the buffer to w in the given container format.
// EXR output is written through an in-memory buffer unless w is an
// io.WriteSeeker.
func (b *Buffer) Encode(w io.Writer, c Container, opts ...EncodeOption) error {
	if !b.IsValid() {
		return ErrInvalidBuffer
	}
	o := defaultEncodeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var err error
	switch c {
	case ContainerEXR:
		err = b.encodeEXR(w, o)
	case ContainerPNG:
		err = png.Encode(w, b.ToStdImage())
	case ContainerTIFF:
		err = tiff.Encode(w, b.ToStdImage(), &tiff.Options{Compression: o.tiffCompression})
	case ContainerBMP:
		err = bmp.Encode(w, b.ToStdImage())
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, c, err)
	}
	return nil
}

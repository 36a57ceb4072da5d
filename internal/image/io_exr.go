package image

import (
	"bytes"
	"errors"
	"io"

	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/mrjoshuak/go-openexr/half"
)

// EXR errors.
var (
	errEXRNoHeader = errors.New("exr: no header found")
	errEXRTiled    = errors.New("exr: tiled images are not supported")
)

// rgbaNames are the EXR channel names mapped to channels 0..3.
var rgbaNames = [4]string{"R", "G", "B", "A"}

// exrChannelNames picks the file channels mapped to buffer channels.
// Files carrying R, G, B or A use those names; otherwise channels are taken
// in file order.
func exrChannelNames(cl *exr.ChannelList) []string {
	present := make(map[string]bool, cl.Len())
	for i := 0; i < cl.Len(); i++ {
		present[cl.At(i).Name] = true
	}

	names := make([]string, 0, 4)
	hasRGBA := false
	for _, n := range rgbaNames {
		if present[n] {
			hasRGBA = true
			break
		}
	}
	if hasRGBA {
		for _, n := range rgbaNames {
			if present[n] {
				names = append(names, n)
			} else {
				names = append(names, "")
			}
		}
		return names
	}

	for i := 0; i < cl.Len() && i < 4; i++ {
		names = append(names, cl.At(i).Name)
	}
	return names
}

// decodeEXR decodes a scanline OpenEXR file. A single-channel file becomes
// a Scalar1 buffer, anything else a Vector4Float buffer.
func decodeEXR(data []byte) (*Buffer, error) {
	f, err := exr.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	h := f.Header(0)
	if h == nil {
		return nil, errEXRNoHeader
	}
	if h.IsTiled() {
		return nil, errEXRTiled
	}

	cl := h.Channels()
	if cl == nil || cl.Len() == 0 {
		return nil, errors.New("exr: missing channels")
	}

	dw := h.DataWindow()
	width := int(dw.Width())
	height := int(dw.Height())
	minX := int(dw.Min.X)
	minY := int(dw.Min.Y)

	encoding := EncodingVector4Float
	names := exrChannelNames(cl)
	if cl.Len() == 1 {
		encoding = EncodingScalar1
		names = names[:1]
		if names[0] == "" {
			names[0] = cl.At(0).Name
		}
	}

	buf, err := NewBuffer(width, height, encoding)
	if err != nil {
		return nil, err
	}

	fb := exr.NewFrameBuffer()
	for _, n := range names {
		if n == "" {
			continue
		}
		fb.Set(n, exr.NewSlice(exr.PixelTypeFloat, make([]byte, width*height*4), width, height))
	}

	sr, err := exr.NewScanlineReader(f)
	if err != nil {
		return nil, err
	}
	sr.SetFrameBuffer(fb)
	if err := sr.ReadPixels(minY, int(dw.Max.Y)); err != nil {
		return nil, err
	}

	for y := range height {
		for x := range width {
			var c Channels
			for k, n := range names {
				if n == "" {
					if k == 3 {
						c[k] = 1 // missing alpha is opaque
					}
					continue
				}
				c[k] = fb.Get(n).GetFloat32(minX+x, minY+y)
			}
			buf.store.set(y*width+x, c)
		}
	}
	return buf, nil
}

// encodeEXR writes the buffer as a scanline OpenEXR file.
// Scalar1 is written as a single Y channel, the other encodings as RGBA.
func (b *Buffer) encodeEXR(w io.Writer, o encodeOptions) error {
	names := rgbaNames[:]
	if b.encoding == EncodingScalar1 {
		names = []string{"Y"}
	}

	pixelType := exr.PixelTypeFloat
	size := 4
	if o.halfFloat {
		pixelType = exr.PixelTypeHalf
		size = 2
	}

	h := exr.NewScanlineHeader(b.width, b.height)
	h.SetCompression(o.exrCompression)

	channels := exr.NewChannelList()
	fb := exr.NewFrameBuffer()
	for _, n := range names {
		channels.Add(exr.Channel{Name: n, Type: pixelType, XSampling: 1, YSampling: 1})
		fb.Set(n, exr.NewSlice(pixelType, make([]byte, b.width*b.height*size), b.width, b.height))
	}
	h.SetChannels(channels)

	for y := range b.height {
		for x := range b.width {
			c := b.At(x, y)
			for k, n := range names {
				if o.halfFloat {
					fb.Get(n).SetHalf(x, y, half.FromFloat32(c[k]))
				} else {
					fb.Get(n).SetFloat32(x, y, c[k])
				}
			}
		}
	}

	ws, ok := w.(io.WriteSeeker)
	var mem *writeSeeker
	if !ok {
		mem = &writeSeeker{}
		ws = mem
	}

	sw, err := exr.NewScanlineWriter(ws, h)
	if err != nil {
		return err
	}
	sw.SetFrameBuffer(fb)

	dw := h.DataWindow()
	if err := sw.WritePixels(int(dw.Min.Y), int(dw.Max.Y)); err != nil {
		return err
	}
	if err := sw.Close(); err != nil {
		return err
	}

	if mem != nil {
		_, err = w.Write(mem.buf)
		return err
	}
	return nil
}

// writeSeeker is an in-memory io.WriteSeeker for EXR output to plain writers.
type writeSeeker struct {
	buf []byte
	pos int
}

func (m *writeSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("image: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("image: negative position")
	}
	m.pos = int(abs)
	return abs, nil
}

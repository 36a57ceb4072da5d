package image

import (
	"errors"
	"math"
	"testing"
)

// gradientBuffer returns a Vector4Float buffer whose channel 1 holds x+y*width.
func gradientBuffer(t *testing.T, width, height int) *Buffer {
	t.Helper()
	buf, err := NewBuffer(width, height, EncodingVector4Float)
	if err != nil {
		t.Fatal(err)
	}
	for y := range height {
		for x := range width {
			_ = buf.Set(x, y, Channels{0, float32(x + y*width), 0, 1})
		}
	}
	return buf
}

func TestSamplerTexelCenters(t *testing.T) {
	for _, size := range []int{1, 2, 4, 16} {
		buf := gradientBuffer(t, size, size)
		s, err := NewSampler(buf)
		if err != nil {
			t.Fatal(err)
		}
		for y := range size {
			for x := range size {
				u := (float32(x) + 0.5) / float32(size)
				v := (float32(y) + 0.5) / float32(size)
				got := s.Sample(u, v)
				want, _ := buf.Get(x, y)
				if got != want {
					t.Errorf("size %d: Sample(center %d,%d) = %v, want %v", size, x, y, got, want)
				}
			}
		}
	}
}

func TestSamplerFourCornerBlend(t *testing.T) {
	buf, _ := NewBuffer(2, 2, EncodingVector4Float)
	_ = buf.Set(0, 0, Channels{0, 0, 0, 0})
	_ = buf.Set(1, 0, Channels{0, 1, 0, 0})
	_ = buf.Set(0, 1, Channels{0, 2, 0, 0})
	_ = buf.Set(1, 1, Channels{0, 3, 0, 0})

	got, err := SampleBilinear(buf, 0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got[1] != 1.5 {
		t.Errorf("SampleBilinear(0.5, 0.5)[1] = %v, want 1.5", got[1])
	}
}

func TestSamplerToroidalWrap(t *testing.T) {
	buf := gradientBuffer(t, 8, 4)
	s, _ := NewSampler(buf)

	uvs := [][2]float32{
		{0.1, 0.2},
		{0.5, 0.5},
		{0.93, 0.07},
		{0, 0},
	}
	for _, p := range uvs {
		base := s.Sample(p[0], p[1])
		for _, off := range [][2]float32{{1, 0}, {-1, 0}, {0, 1}, {0, -2}, {3, -3}} {
			got := s.Sample(p[0]+off[0], p[1]+off[1])
			for k := range got {
				if math.Abs(float64(got[k]-base[k])) > 1e-3 {
					t.Errorf("Sample(%v+%v) = %v, want %v", p, off, got, base)
					break
				}
			}
		}
	}
}

func TestSamplerEdgeBlendsAcrossSeam(t *testing.T) {
	buf, _ := NewBuffer(4, 1, EncodingVector4Float)
	_ = buf.Set(0, 0, Channels{0, 10, 0, 0})
	_ = buf.Set(3, 0, Channels{0, 30, 0, 0})

	// u = 0 lies halfway between the last and the first texel.
	got, _ := SampleBilinear(buf, 0, 0.5)
	if got[1] != 20 {
		t.Errorf("SampleBilinear(0, 0.5)[1] = %v, want 20", got[1])
	}
}

func TestSamplerQuantizedBlend(t *testing.T) {
	buf, _ := NewBuffer(2, 1, EncodingColor4Quantized8)
	_ = buf.Set(0, 0, Channels{0, 0, 0, 1})
	_ = buf.Set(1, 0, Channels{0, 1, 0, 1})

	// Quantized texels blend in float space, no truncation back to 8 bits.
	got, _ := SampleBilinear(buf, 0.5, 0.5)
	if got[1] != 0.5 {
		t.Errorf("quantized blend = %v, want 0.5", got[1])
	}
}

func TestSamplerNearest(t *testing.T) {
	buf := gradientBuffer(t, 4, 4)
	got, err := SampleNearest(buf, 0.3, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := buf.Get(1, 3)
	if got != want {
		t.Errorf("SampleNearest(0.3, 0.9) = %v, want %v", got, want)
	}

	got, _ = SampleNearest(buf, -0.05, 1.3)
	want, _ = buf.Get(3, 1)
	if got != want {
		t.Errorf("SampleNearest(-0.05, 1.3) = %v, want %v", got, want)
	}
}

func TestSamplerInvalidBuffer(t *testing.T) {
	if _, err := NewSampler(&Buffer{}); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("NewSampler() error = %v, want ErrInvalidBuffer", err)
	}
	if _, err := SampleBilinear(nil, 0, 0); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("SampleBilinear(nil) error = %v, want ErrInvalidBuffer", err)
	}
}

func TestWrapAxis(t *testing.T) {
	tests := []struct {
		t        float32
		n        int
		i0, i1   int
		wantFrac float32
	}{
		{0.125, 4, 0, 1, 0},
		{0.25, 4, 0, 1, 0.5},
		{0, 4, 3, 0, 0.5},
		{1, 4, 3, 0, 0.5},
		{-0.875, 4, 0, 1, 0},
	}
	for _, tt := range tests {
		i0, i1, frac := wrapAxis(tt.t, float32(tt.n), tt.n)
		if i0 != tt.i0 || i1 != tt.i1 || math.Abs(float64(frac-tt.wantFrac)) > 1e-6 {
			t.Errorf("wrapAxis(%v, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.t, tt.n, i0, i1, frac, tt.i0, tt.i1, tt.wantFrac)
		}
	}
}

func TestInterpolationModeString(t *testing.T) {
	if InterpNearest.String() != "Nearest" || InterpBilinear.String() != "Bilinear" {
		t.Error("unexpected mode names")
	}
	if InterpolationMode(9).String() != "Unknown" {
		t.Error("unknown mode should print Unknown")
	}
}

func TestSamplerNonFiniteCoordinates(t *testing.T) {
	buf := gradientBuffer(t, 8, 4)
	s, _ := NewSampler(buf)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	// Non-finite coordinates land on texel 0 of that axis.
	want := s.Sample(0.5/8, 0.3)
	for _, u := range []float32{nan, inf, -inf} {
		if got := s.Sample(u, 0.3); got != want {
			t.Errorf("Sample(%v, 0.3) = %v, want %v", u, got, want)
		}
	}
	if got, want := s.Sample(0.7, nan), s.Sample(0.7, 0.5/4); got != want {
		t.Errorf("Sample(0.7, NaN) = %v, want %v", got, want)
	}

	n, _ := NewSamplerMode(buf, InterpNearest)
	if got, want := n.Sample(nan, -inf), buf.At(0, 0); got != want {
		t.Errorf("nearest Sample(NaN, -Inf) = %v, want %v", got, want)
	}

	if i0, i1, frac := wrapAxis(nan, 8, 8); i0 != 0 || i1 != 1 || frac != 0 {
		t.Errorf("wrapAxis(NaN) = (%d, %d, %v), want (0, 1, 0)", i0, i1, frac)
	}
}

func TestSamplerNaNTexelPropagates(t *testing.T) {
	buf := gradientBuffer(t, 4, 4)
	nan := float32(math.NaN())
	buf.SetAt(1, 1, Channels{nan, 5, 0, 1})

	got, err := SampleBilinear(buf, 1.5/4, 1.5/4)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(got[0])) {
		t.Errorf("channel 0 = %v, want NaN", got[0])
	}
	if got[1] != 5 {
		t.Errorf("channel 1 = %v, want 5", got[1])
	}
}

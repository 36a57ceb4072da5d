package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/heightfield"
)

// writeFrames writes n opaque PNG frames named disp_000<i>.png into dir.
func writeFrames(t *testing.T, dir string, n, width, height int) string {
	t.Helper()
	for i := range n {
		buf, err := heightfield.NewBuffer(width, height, heightfield.Color4Quantized8)
		if err != nil {
			t.Fatal(err)
		}
		buf.Fill(heightfield.Channels{0, 0.4, 0, 1})
		path := filepath.Join(dir, "disp_000"+string(rune('0'+i))+".png")
		if err := buf.Save(path); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "disp_000%d")
}

func newConverter(t *testing.T, opts ...heightfield.Option) *heightfield.Converter {
	t.Helper()
	c, err := heightfield.NewConverter(opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestDiscoverStopsAtFirstGap(t *testing.T) {
	dir := t.TempDir()
	pattern := writeFrames(t, dir, 3, 2, 2)
	// A later frame after the gap is ignored.
	if err := os.WriteFile(filepath.Join(dir, "disp_0005.png"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	frames, err := discover(batchConfig{pattern: pattern, ext: ".png", count: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("discover() found %d frames, want 3", len(frames))
	}

	f := frames[1]
	if f.index != 1 ||
		f.input != filepath.Join(dir, "disp_0001.png") ||
		f.table != filepath.Join(dir, "disp_0001.png.txt") ||
		f.image != filepath.Join(dir, "disp_0001_OUT.png") {
		t.Errorf("frame = %+v", f)
	}

	frames, _ = discover(batchConfig{pattern: pattern, ext: ".png", start: 1, count: 1})
	if len(frames) != 1 || frames[0].index != 1 {
		t.Errorf("discover(start=1, count=1) = %+v", frames)
	}
}

func TestDiscoverRejectsPatternWithoutVerb(t *testing.T) {
	if _, err := discover(batchConfig{pattern: "disp", ext: ".exr", count: 1}); err == nil {
		t.Error("discover() accepted a pattern without a frame verb")
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	pattern := writeFrames(t, dir, 3, 4, 3)

	conv := newConverter(t, heightfield.WithBufferPool(heightfield.NewBufferPool(2)))
	var out bytes.Buffer
	n, err := runBatch(context.Background(), conv, batchConfig{
		pattern: pattern,
		ext:     ".png",
		count:   100,
		jobs:    2,
	}, &out)
	if err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}
	if n != 3 {
		t.Errorf("runBatch() = %d frames, want 3", n)
	}

	for i := range 3 {
		base := filepath.Join(dir, "disp_000"+string(rune('0'+i)))
		table, err := os.ReadFile(base + ".png.txt")
		if err != nil {
			t.Fatalf("table of frame %d: %v", i, err)
		}
		if lines := strings.Count(string(table), "\n"); lines != 3 {
			t.Errorf("frame %d table has %d lines, want 3", i, lines)
		}
		img, err := heightfield.Load(base + "_OUT.png")
		if err != nil {
			t.Fatalf("output of frame %d: %v", i, err)
		}
		if img.Width() != 4 || img.Height() != 3 {
			t.Errorf("output of frame %d is %dx%d, want 4x3", i, img.Width(), img.Height())
		}
	}

	summary := out.String()
	if got := strings.Count(summary, ".. DONE"); got != 3 {
		t.Errorf("summary has %d DONE lines, want 3:\n%s", got, summary)
	}
	if !strings.Contains(summary, "Average Y:\t0.400000") {
		t.Errorf("summary missing average height:\n%s", summary)
	}
	if strings.Contains(summary, "Average iteration count") {
		t.Errorf("passthrough summary reports iterations:\n%s", summary)
	}
}

func TestRunBatchHeightfieldSummary(t *testing.T) {
	dir := t.TempDir()
	pattern := writeFrames(t, dir, 1, 2, 2)

	conv := newConverter(t, heightfield.WithHeightfield(50))
	var out bytes.Buffer
	if _, err := runBatch(context.Background(), conv, batchConfig{
		pattern: pattern, ext: ".png", count: 1, jobs: 1,
	}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Average iteration count: 0.000000") {
		t.Errorf("summary missing iteration count:\n%s", out.String())
	}
}

func TestRunBatchErrors(t *testing.T) {
	dir := t.TempDir()
	conv := newConverter(t)

	_, err := runBatch(context.Background(), conv, batchConfig{
		pattern: filepath.Join(dir, "none_%d"), ext: ".exr", count: 5, jobs: 1,
	}, &bytes.Buffer{})
	if err == nil {
		t.Error("runBatch() with no inputs succeeded")
	}

	pattern := writeFrames(t, dir, 1, 4, 4)
	gt := filepath.Join(dir, "gt.png")
	small, _ := heightfield.NewBuffer(2, 2, heightfield.Color4Quantized8)
	if err := small.Save(gt); err != nil {
		t.Fatal(err)
	}
	_, err = runBatch(context.Background(), conv, batchConfig{
		pattern: pattern, ext: ".png", count: 1, jobs: 1, groundTruth: gt,
	}, &bytes.Buffer{})
	if !errors.Is(err, heightfield.ErrDimensionMismatch) {
		t.Errorf("runBatch() with mismatched ground truth error = %v, want ErrDimensionMismatch", err)
	}
}

func TestRunBatchCanceled(t *testing.T) {
	dir := t.TempDir()
	pattern := writeFrames(t, dir, 2, 2, 2)
	conv := newConverter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := runBatch(ctx, conv, batchConfig{pattern: pattern, ext: ".png", count: 2, jobs: 1}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("runBatch() error = %v, want context.Canceled", err)
	}
	if n != 0 {
		t.Errorf("runBatch() converted %d frames after cancellation", n)
	}
}

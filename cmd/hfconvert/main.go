// Command hfconvert converts a sequence of ocean displacement maps into
// heightfields.
//
// For every input <name><ext> in the sequence it writes <name><ext>.txt
// (a tab-separated table of the selected channels) and <name>_OUT<ext>
// (the output image). The sequence ends at the first missing file.
//
// Usage:
//
//	hfconvert [flags]
//
// Example:
//
//	hfconvert -pattern 'disp_000%d' -size 1 -spatial-size 50
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/heightfield"
)

func main() {
	var (
		pattern     = flag.String("pattern", "disp_000%d", "input base name, formatted with the frame index")
		ext         = flag.String("ext", ".exr", "input file extension")
		start       = flag.Int("start", 0, "first frame index")
		count       = flag.Int("max", 100, "maximum number of frames")
		first       = flag.Int("first", 1, "first table channel (0-3)")
		last        = flag.Int("last", 1, "last table channel (0-3)")
		passthrough = flag.Bool("passthrough", false, "copy the input instead of inverting the displacement")
		size        = flag.Float64("size", 1, "ocean size multiplier (not stored in the EXR)")
		spatialSize = flag.Float64("spatial-size", 50, "ocean spatial size (not stored in the EXR)")
		workers     = flag.Int("workers", 0, "goroutines per frame (0 = GOMAXPROCS)")
		jobs        = flag.Int("jobs", 2, "frames converted concurrently")
		halfFloat   = flag.Bool("half", false, "write EXR output as half floats")
		groundTruth = flag.String("gt", "", "optional ground truth image that must match the input size")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	heightfield.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	opts := []heightfield.Option{
		heightfield.WithChannelRange(*first, *last),
		heightfield.WithWorkers(*workers),
		heightfield.WithBufferPool(heightfield.NewBufferPool(*jobs)),
	}
	if !*passthrough {
		opts = append(opts, heightfield.WithHeightfield(float32(*size**spatialSize)))
	}

	conv, err := heightfield.NewConverter(opts...)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	defer conv.Close()

	cfg := batchConfig{
		pattern:     *pattern,
		ext:         *ext,
		start:       *start,
		count:       *count,
		jobs:        *jobs,
		groundTruth: *groundTruth,
	}
	if *halfFloat {
		cfg.encode = append(cfg.encode, heightfield.WithHalfFloat())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := runBatch(ctx, conv, cfg, os.Stdout)
	if err != nil {
		conv.Close()
		log.Fatalf("Conversion failed after %d frames: %v", n, err)
	}
	log.Printf("Converted %d frames\n", n)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/heightfield"
)

// batchConfig describes a frame sequence and how to write its outputs.
type batchConfig struct {
	pattern     string
	ext         string
	start       int
	count       int
	jobs        int
	groundTruth string
	encode      []heightfield.EncodeOption
}

// frame is one input of the sequence and its derived output paths.
type frame struct {
	index int
	input string
	table string
	image string
}

// newFrame derives the output paths of base+ext:
// the table is written next to the input with a ".txt" suffix, the image
// as base+"_OUT"+ext.
func newFrame(index int, base, ext string) frame {
	input := base + ext
	return frame{
		index: index,
		input: input,
		table: input + ".txt",
		image: base + "_OUT" + ext,
	}
}

// discover lists the frames of the sequence, stopping at the first index
// whose input does not exist.
func discover(cfg batchConfig) ([]frame, error) {
	if !strings.Contains(cfg.pattern, "%") {
		return nil, fmt.Errorf("pattern %q has no frame index verb", cfg.pattern)
	}

	var frames []frame
	for i := cfg.start; i < cfg.start+cfg.count; i++ {
		f := newFrame(i, fmt.Sprintf(cfg.pattern, i), cfg.ext)
		if _, err := os.Stat(f.input); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			return frames, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// runBatch converts every discovered frame, at most cfg.jobs at a time.
// The first failure cancels the frames not yet started. Summaries are
// written to w, one block per frame. Returns the number of converted frames.
func runBatch(ctx context.Context, conv *heightfield.Converter, cfg batchConfig, w io.Writer) (int, error) {
	frames, err := discover(cfg)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, fmt.Errorf("no input matches %q", fmt.Sprintf(cfg.pattern, cfg.start)+cfg.ext)
	}

	var (
		mu   sync.Mutex
		done int
	)
	p := message.NewPrinter(language.English)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.jobs, 1))
	for _, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, err := convertFrame(ctx, conv, cfg, f, p)
			if err != nil {
				return fmt.Errorf("%s: %w", f.input, err)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			_, err = io.WriteString(w, summary)
			return err
		})
	}

	err = g.Wait()
	return done, err
}

// convertFrame converts one frame, writes its outputs and returns the
// printable summary.
func convertFrame(ctx context.Context, conv *heightfield.Converter, cfg batchConfig, f frame, p *message.Printer) (string, error) {
	in, err := heightfield.Load(f.input)
	if err != nil {
		return "", err
	}

	if cfg.groundTruth != "" {
		if _, err := heightfield.LoadGroundTruth(cfg.groundTruth, in.Width(), in.Height()); err != nil {
			return "", err
		}
	}

	res, err := conv.Convert(ctx, in)
	if err != nil {
		return "", err
	}
	defer res.Release()

	if err := res.SaveTable(f.table); err != nil {
		return "", err
	}
	if err := res.Output.Save(f.image, cfg.encode...); err != nil {
		return "", err
	}

	return summarize(p, f, res), nil
}

// summarize formats the statistics of one converted frame.
func summarize(p *message.Printer, f frame, res *heightfield.Result) string {
	var sb strings.Builder
	st := res.Stats
	p.Fprintf(&sb, "%s (%d x %d, %d pixels)\n", f.input, res.Output.Width(), res.Output.Height(), st.Pixels)
	p.Fprintf(&sb, "Average Y:\t%f\n", st.Average())
	p.Fprintf(&sb, "Min Y:\t\t%f\n", st.Min)
	p.Fprintf(&sb, "Max Y:\t\t%f\n", st.Max)
	if st.NaN > 0 {
		p.Fprintf(&sb, "NaN heights: %d\n", st.NaN)
	}
	if res.Mode == heightfield.ModeHeightfield {
		p.Fprintf(&sb, "Average iteration count: %f\n", st.AverageIterations())
		if st.Unconverged > 0 {
			p.Fprintf(&sb, "Unconverged pixels: %d\n", st.Unconverged)
		}
	}
	p.Fprintf(&sb, "%s.. DONE\n", strings.TrimSuffix(f.input, filepath.Ext(f.input)))
	return sb.String()
}

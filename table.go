package heightfield

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteTable writes the emitted values as plain text: one line per row,
// and for every pixel of the row the channels of the configured range,
// each formatted with six decimals and followed by a tab. There is no
// header.
func (r *Result) WriteTable(w io.Writer) error {
	return WriteTable(w, r.Values, r.firstChannel, r.lastChannel)
}

// SaveTable writes the table to path.
func (r *Result) SaveTable(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := r.WriteTable(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteTable writes channels [first, last] of every pixel of buf to w in
// the tabular text format described on Result.WriteTable.
func WriteTable(w io.Writer, buf *Buffer, first, last int) error {
	if first > last || first < 0 || last > 3 {
		return fmt.Errorf("%w: channel range [%d,%d]", ErrInvalidArgument, first, last)
	}
	if !buf.IsValid() {
		return ErrInvalidBuffer
	}

	bw := bufio.NewWriter(w)
	var (
		row  []Channels
		line []byte
		err  error
	)
	for y := range buf.Height() {
		row, err = buf.Row(row[:0], y)
		if err != nil {
			return err
		}
		line = line[:0]
		for _, c := range row {
			for ch := first; ch <= last; ch++ {
				line = strconv.AppendFloat(line, float64(c[ch]), 'f', 6, 64)
				line = append(line, '\t')
			}
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

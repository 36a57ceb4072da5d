package parallel

// DefaultBandRows is the default number of rows per band.
const DefaultBandRows = 16

// Band is a contiguous range of rows [Y0, Y1).
type Band struct {
	Index int
	Y0    int
	Y1    int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into bands of at most rows rows each.
// A non-positive rows uses DefaultBandRows.
func Bands(height, rows int) []Band {
	if height <= 0 {
		return nil
	}
	if rows <= 0 {
		rows = DefaultBandRows
	}

	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{
			Index: len(bands),
			Y0:    y,
			Y1:    min(y+rows, height),
		})
	}
	return bands
}

// ForEachBand runs fn once per band on the pool and waits for completion.
// fn receives bands in no particular order; each band is visited exactly once.
func (p *WorkerPool) ForEachBand(bands []Band, fn func(Band)) {
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}

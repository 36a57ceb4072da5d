package heightfield

import "math"

// Stats summarizes the height channel and solver effort of one conversion.
//
// Each band of a conversion fills its own Stats; the results are combined
// with Merge once every band has finished. Floating-point summation is
// order dependent, so averages may differ in the last bits between runs
// with different band layouts.
type Stats struct {
	// Sum is the sum of the height values.
	Sum float64

	// Min and Max are the extreme height values.
	Min float32
	Max float32

	// Pixels is the number of accumulated pixels.
	Pixels int

	// NaN counts heights that were NaN. They are excluded from Sum, Min,
	// Max and Pixels.
	NaN int

	// Iterations is the total inversion iteration count.
	Iterations int

	// Unconverged counts pixels whose inversion reached the iteration cap.
	Unconverged int
}

// NewStats returns an empty accumulator.
func NewStats() Stats {
	return Stats{
		Min: float32(math.Inf(1)),
		Max: float32(math.Inf(-1)),
	}
}

// Add accumulates one height value. NaN only increments the NaN count,
// so one bad texel does not poison the extremes or the average.
func (s *Stats) Add(h float32) {
	if math.IsNaN(float64(h)) {
		s.NaN++
		return
	}
	s.Sum += float64(h)
	s.Min = min(s.Min, h)
	s.Max = max(s.Max, h)
	s.Pixels++
}

// AddIterations accumulates the iteration count of one inversion.
func (s *Stats) AddIterations(n int, converged bool) {
	s.Iterations += n
	if !converged {
		s.Unconverged++
	}
}

// Merge combines o into s.
func (s *Stats) Merge(o Stats) {
	s.Sum += o.Sum
	s.Min = min(s.Min, o.Min)
	s.Max = max(s.Max, o.Max)
	s.Pixels += o.Pixels
	s.NaN += o.NaN
	s.Iterations += o.Iterations
	s.Unconverged += o.Unconverged
}

// Average returns the mean height, or 0 for an empty accumulator.
func (s Stats) Average() float32 {
	if s.Pixels == 0 {
		return 0
	}
	return float32(s.Sum / float64(s.Pixels))
}

// AverageIterations returns the mean iteration count per pixel.
func (s Stats) AverageIterations() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Iterations) / float64(s.Pixels)
}

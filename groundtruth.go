package heightfield

import "fmt"

// LoadGroundTruth loads a reference image and checks that it is width x
// height pixels. The converter never reads the reference; callers compare
// against it themselves.
func LoadGroundTruth(path string, width, height int) (*Buffer, error) {
	gt, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := CheckGroundTruth(gt, width, height); err != nil {
		return nil, err
	}
	return gt, nil
}

// CheckGroundTruth reports ErrDimensionMismatch unless gt is width x height.
func CheckGroundTruth(gt *Buffer, width, height int) error {
	if !gt.IsValid() {
		return ErrInvalidBuffer
	}
	if gt.Width() != width || gt.Height() != height {
		return fmt.Errorf("%w: ground truth is %dx%d, want %dx%d",
			ErrDimensionMismatch, gt.Width(), gt.Height(), width, height)
	}
	return nil
}

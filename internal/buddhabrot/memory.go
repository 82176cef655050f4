package buddhabrot

import "fmt"

// RequiredMemory returns the working set in bytes for a render of the given size:
// the accumulation buffer, the RGBA output and one trajectory scratch.
// Each extra worker adds another accumulation buffer and trajectory (see WorkerMemory).
func RequiredMemory(width, height, iters int) (int64, error) {
	if err := checkDimensions(width, height); err != nil {
		return 0, err
	}
	if iters <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIterationBound, iters)
	}
	px := int64(width) * int64(height)
	perPixel := int64(Channels*counterBytes + outPixBytes)
	if px > MaxMemory/perPixel || int64(iters) > MaxMemory/pointBytes {
		return 0, fmt.Errorf("%w: %dx%d with %d iterations exceeds %d bytes", ErrInvalidDimension, width, height, iters, MaxMemory)
	}
	total := px*perPixel + int64(iters)*pointBytes
	if total > MaxMemory {
		return 0, fmt.Errorf("%w: %dx%d with %d iterations needs %d bytes, limit is %d", ErrInvalidDimension, width, height, iters, total, MaxMemory)
	}
	return total, nil
}

// WorkerMemory is the private state of one sampling worker: a partial
// accumulation buffer and a trajectory scratch.
func WorkerMemory(width, height, iters int) int64 {
	return int64(width)*int64(height)*Channels*counterBytes + int64(iters)*pointBytes
}

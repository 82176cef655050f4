package buddhabrot

import "fmt"

// Transform holds two rows of coefficients over (a, b, cx, cy):
// screen x from m[0..3], screen y from m[4..7].
type Transform [8]Real

// DefaultTransform plots Im(z) horizontally and Re(z) vertically,
// the classic upright Buddhabrot.
var DefaultTransform = Transform{0, 1, 0, 0, 1, 0, 0, 0}

// Project maps a trajectory point and its sample to unit screen coordinates.
func (m *Transform) Project(a, b, cx, cy Real) (x, y Real) {
	x = a*m[0] + b*m[1] + cx*m[2] + cy*m[3]
	y = a*m[4] + b*m[5] + cx*m[6] + cy*m[7]
	return
}

// Validate requires finite coefficients.
func (m *Transform) Validate() error {
	for i, v := range m {
		if !isFinite(v) {
			return fmt.Errorf("%w: coefficient %d is %v", ErrInvalidTransform, i, v)
		}
	}
	return nil
}

// PixelOf maps a unit coordinate to a pixel index in [0, dim).
// Units must lie strictly inside (-DomainHalf, DomainHalf); both edges are clipped,
// and so is anything that rounds onto dim. Nothing wraps or clamps.
func PixelOf(unit Real, dim int) (int, bool) {
	if !(unit > -DomainHalf && unit < DomainHalf) {
		return 0, false
	}
	f := (unit + DomainHalf) / DomainSpan * Real(dim)
	p := int(f)
	if p >= dim {
		return 0, false
	}
	return p, true
}

package buddhabrot

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a per-point photon increment. Values are added, never stored as a color.
type RGB struct {
	R, G, B uint32
}

var white = RGB{1, 1, 1}

// Hue bases of the angle modes: hue_atan_red puts straight orbits on red,
// hue_atan_green on green and hue_atan_blue on blue.
const (
	hueBaseRed   = 0.0
	hueBaseGreen = 1.0 / 3
	hueBaseBlue  = 2.0 / 3
)

// hueIncrement converts HSL(h, 1, 0.5) to photon counts in 0..255 per channel.
func hueIncrement(h Real) RGB {
	c := colorful.Hsl(frac(h)*360, 1, 0.5)
	return RGB{
		R: uint32(math.Floor(c.R * HSLScale)),
		G: uint32(math.Floor(c.G * HSLScale)),
		B: uint32(math.Floor(c.B * HSLScale)),
	}
}

// perPoint reports whether the mode needs the neighbours of every plotted slot.
func (m ColorMode) perPoint() bool {
	switch m {
	case ColorHueAtanRed, ColorHueAtanBlue, ColorHueAtanGreen, ColorHueAtanAsymm:
		return true
	}
	return false
}

// trajectoryColor returns the increment shared by every point of t
// for the modes that do not look at neighbours.
func trajectoryColor(m ColorMode, t *Trajectory, offset Real) RGB {
	switch m {
	case ColorHueIters:
		return itersIncrement(t, offset)
	default:
		return white
	}
}

// itersIncrement colors inner orbits by their cycle length and escaping orbits by
// how long they survived.
func itersIncrement(t *Trajectory, offset Real) RGB {
	var h Real
	if t.Escaped {
		n := t.Iters()
		h = Real(n-t.K) / Real(n)
	} else if cycle := t.CycleLength(); cycle > 0 {
		h = frac(Real(cycle) / CycleDivisor)
	}
	inc := hueIncrement(h + offset)
	if inc == (RGB{}) {
		inc.R += AntiBlackBump
	}
	return inc
}

// pointColor colors slot j by the turning angle of the orbit there.
// Slot j+1 is the iterate before j in time, slot j-1 the one after.
func pointColor(m ColorMode, t *Trajectory, j int, offset Real) RGB {
	prev, cur, next := t.Points[j+1], t.Points[j], t.Points[j-1]
	var a0, a1 Real
	if m == ColorHueAtanAsymm {
		a0 = math.Atan2(cur.B-prev.B, cur.A-prev.A)
		a1 = math.Atan2(next.A-cur.A, next.B-cur.B)
	} else {
		a0 = math.Atan2(cur.B-prev.B, cur.A-prev.A)
		a1 = math.Atan2(next.B-cur.B, next.A-cur.A)
	}
	d := math.Abs(a1-a0) / math.Pi
	var h Real
	switch m {
	case ColorHueAtanBlue:
		h = hueBaseBlue + foldShift(d)
	case ColorHueAtanGreen:
		h = hueBaseGreen + foldMirror(d)
	default:
		h = hueBaseRed + foldMirror(d)
	}
	return hueIncrement(h + offset)
}

// foldMirror folds [0,2] onto [0,1] by reflecting around 1.
func foldMirror(d Real) Real {
	if d > 1 {
		return 2 - d
	}
	return d
}

// foldShift folds [0,2] onto [0,1] by subtracting 1.
func foldShift(d Real) Real {
	if d > 1 {
		return d - 1
	}
	return d
}

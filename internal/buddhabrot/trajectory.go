package buddhabrot

import "math"

// Point is one iterate z = a + bi.
type Point struct {
	A, B Real
}

// Trajectory is the scratch orbit of one sample.
//
// Points is indexed by the remaining-iteration count: Points[len-1] is the first
// iterate, Points[0] the last. When the orbit escapes, the escape is detected
// while the remaining counter equals K; slot K and everything below it are stale.
type Trajectory struct {
	Points  []Point
	Escaped bool
	K       int
	Cx, Cy  Real
}

// NewTrajectory allocates scratch for iters iterations.
func NewTrajectory(iters int) *Trajectory {
	t := &Trajectory{}
	t.Resize(iters)
	return t
}

// Resize grows the scratch on demand; existing capacity is reused.
func (t *Trajectory) Resize(iters int) {
	if iters < 0 {
		iters = 0
	}
	if cap(t.Points) < iters {
		t.Points = make([]Point, iters)
		return
	}
	t.Points = t.Points[:iters]
}

// Iters returns the iteration bound the scratch is sized for.
func (t *Trajectory) Iters() int { return len(t.Points) }

// Iterate runs z <- z² + c starting at z = c and records every post-update iterate.
func (t *Trajectory) Iterate(cx, cy Real, esc EscapeTest) {
	t.Cx, t.Cy = cx, cy
	a, b := cx, cy
	j := len(t.Points)
	for j > 0 {
		j--
		aa, bb := a*a, b*b
		if escapes(esc, aa, bb) {
			t.Escaped, t.K = true, j
			return
		}
		b = 2*a*b + cy
		a = aa - bb + cx
		t.Points[j] = Point{a, b}
	}
	t.Escaped, t.K = false, 0
}

func escapes(esc EscapeTest, aa, bb Real) bool {
	if esc == EscapeBox {
		return aa > EscapeRadiusSq || bb > EscapeRadiusSq
	}
	return aa+bb > EscapeRadiusSq
}

// First returns the lowest valid slot.
func (t *Trajectory) First() int {
	if t.Escaped {
		return t.K + 1
	}
	return 0
}

// Window returns the contributing slots lo..hi inclusive: every valid slot that
// has a valid neighbour on both sides. All color modes plot the same window so the
// density does not depend on the color mode. lo > hi means nothing is plotted.
func (t *Trajectory) Window() (lo, hi int) {
	return t.First() + 1, len(t.Points) - 2
}

// CycleLength scans forward in time from the first iterate and returns the
// smallest step count after which the orbit comes back within RevisitEps of it on
// both axes, or 0 when it never does.
func (t *Trajectory) CycleLength() int {
	n := len(t.Points)
	first := t.First()
	if n-first < 2 {
		return 0
	}
	start := t.Points[n-1]
	for j := n - 2; j >= first; j-- {
		p := t.Points[j]
		if math.Abs(p.A-start.A) < RevisitEps && math.Abs(p.B-start.B) < RevisitEps {
			return n - 1 - j
		}
	}
	return 0
}

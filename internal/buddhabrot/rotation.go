package buddhabrot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axes of the trajectory space.
const (
	axisA  = 0
	axisB  = 1
	axisCx = 2
	axisCy = 3
)

// Rot4 holds rotation angles in radians for the six coordinate planes of (a, b, cx, cy).
type Rot4 struct {
	AB, ACx, ACy, BCx, BCy, CxCy Real
}

// Add returns the component-wise sum.
func (r Rot4) Add(o Rot4) Rot4 {
	return Rot4{r.AB + o.AB, r.ACx + o.ACx, r.ACy + o.ACy, r.BCx + o.BCx, r.BCy + o.BCy, r.CxCy + o.CxCy}
}

// Scale multiplies every angle by s.
func (r Rot4) Scale(s Real) Rot4 {
	return Rot4{r.AB * s, r.ACx * s, r.ACy * s, r.BCx * s, r.BCy * s, r.CxCy * s}
}

// planeRot rotates axis i towards axis j.
func planeRot(i, j int, angle Real) mgl64.Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := mgl64.Ident4()
	m.Set(i, i, c)
	m.Set(i, j, -s)
	m.Set(j, i, s)
	m.Set(j, j, c)
	return m
}

// rotFromAngles composes the plane rotations, innermost CxCy first.
func rotFromAngles(r Rot4) mgl64.Mat4 {
	R := mgl64.Ident4()
	R = planeRot(axisCx, axisCy, r.CxCy).Mul4(R)
	R = planeRot(axisB, axisCy, r.BCy).Mul4(R)
	R = planeRot(axisB, axisCx, r.BCx).Mul4(R)
	R = planeRot(axisA, axisCy, r.ACy).Mul4(R)
	R = planeRot(axisA, axisCx, r.ACx).Mul4(R)
	R = planeRot(axisA, axisB, r.AB).Mul4(R)
	return R
}

// TransformFromRotation rotates trajectory space by r, scales it by zoom and keeps
// the rotated b axis as screen x and the rotated a axis as screen y.
// Zero angles with zoom 1 give DefaultTransform.
func TransformFromRotation(r Rot4, zoom Real) Transform {
	R := rotFromAngles(r)
	x := R.Row(axisB).Mul(zoom)
	y := R.Row(axisA).Mul(zoom)
	return Transform{x[0], x[1], x[2], x[3], y[0], y[1], y[2], y[3]}
}

package buddhabrot

import (
	"math"
	"sync/atomic"
)

// colorMap maps a normalized channel value, scaled to ColorMapLen, to a byte.
// It is immutable once built.
type colorMap struct {
	contrast Real
	table    [ColorMapLen]uint8
}

// lastColorMap memoizes the most recent contrast.
var lastColorMap atomic.Pointer[colorMap]

func buildColorMap(contrast Real) *colorMap {
	m := &colorMap{contrast: contrast}
	for i := range m.table {
		v := math.Round(math.Pow(Real(i)/ColorMapLen, contrast) * 255)
		if v > 255 {
			v = 255
		}
		m.table[i] = uint8(v)
	}
	return m
}

// colorMapFor returns the table for contrast, building it only when the
// contrast differs from the memoized one.
func colorMapFor(contrast Real) *colorMap {
	if m := lastColorMap.Load(); m != nil && m.contrast == contrast {
		return m
	}
	m := buildColorMap(contrast)
	lastColorMap.Store(m)
	return m
}

// at maps an exposed value v (1.0 is full white) to a byte.
func (m *colorMap) at(v Real) uint8 {
	f := v*ColorMapLen + 0.5
	if !(f < ColorMapLen) {
		return 255
	}
	if f < 0 {
		return 0
	}
	return m.table[int(f)]
}

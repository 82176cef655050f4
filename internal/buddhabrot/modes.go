package buddhabrot

import (
	"fmt"
	"strings"
)

// PointsMode selects which trajectories contribute.
type PointsMode uint8

const (
	PointsInner PointsMode = iota + 1 // trajectories that never escape
	PointsOuter                       // trajectories that escape
)

var pointsModeNames = map[PointsMode]string{
	PointsInner: "inner",
	PointsOuter: "outer",
}

func (m PointsMode) String() string {
	if s, ok := pointsModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("PointsMode(%d)", uint8(m))
}

func (m PointsMode) valid() bool { _, ok := pointsModeNames[m]; return ok }

// ParsePointsMode accepts "inner" or "outer".
func ParsePointsMode(s string) (PointsMode, error) {
	for m, name := range pointsModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPointsMode, s)
}

// ColorMode selects the per-point RGB increment strategy.
type ColorMode uint8

const (
	ColorWhiteBlack ColorMode = iota + 1
	ColorHueAtanRed
	ColorHueAtanBlue
	ColorHueAtanGreen
	ColorHueAtanAsymm
	ColorHueIters
)

var colorModeNames = map[ColorMode]string{
	ColorWhiteBlack:   "white_black",
	ColorHueAtanRed:   "hue_atan_red",
	ColorHueAtanBlue:  "hue_atan_blue",
	ColorHueAtanGreen: "hue_atan_green",
	ColorHueAtanAsymm: "hue_atan_asymm",
	ColorHueIters:     "hue_iters",
}

func (m ColorMode) String() string {
	if s, ok := colorModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ColorMode(%d)", uint8(m))
}

func (m ColorMode) valid() bool { _, ok := colorModeNames[m]; return ok }

// ParseColorMode accepts the names listed in colorModeNames.
func ParseColorMode(s string) (ColorMode, error) {
	for m, name := range colorModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

// EscapeTest selects the bailout condition of the iteration.
type EscapeTest uint8

const (
	// EscapeCircle stops when a²+b² > EscapeRadiusSq.
	EscapeCircle EscapeTest = iota + 1
	// EscapeBox stops when a² > EscapeRadiusSq or b² > EscapeRadiusSq.
	EscapeBox
)

var escapeTestNames = map[EscapeTest]string{
	EscapeCircle: "circle",
	EscapeBox:    "box",
}

func (e EscapeTest) String() string {
	if s, ok := escapeTestNames[e]; ok {
		return s
	}
	return fmt.Sprintf("EscapeTest(%d)", uint8(e))
}

func (e EscapeTest) valid() bool { _, ok := escapeTestNames[e]; return ok }

// ParseEscapeTest accepts "circle" or "box".
func ParseEscapeTest(s string) (EscapeTest, error) {
	for e, name := range escapeTestNames {
		if strings.EqualFold(s, name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEscapeTest, s)
}

// LuminanceMode selects how the tone mapper reduces RGB counters to one value.
type LuminanceMode uint8

const (
	LuminanceWeighted LuminanceMode = iota + 1 // LumR*R + LumG*G + LumB*B
	LuminanceAverage                           // (R+G+B)/3
	LuminanceMax                               // max(R,G,B)
)

var luminanceNames = map[LuminanceMode]string{
	LuminanceWeighted: "weighted",
	LuminanceAverage:  "average",
	LuminanceMax:      "max",
}

func (l LuminanceMode) String() string {
	if s, ok := luminanceNames[l]; ok {
		return s
	}
	return fmt.Sprintf("LuminanceMode(%d)", uint8(l))
}

func (l LuminanceMode) valid() bool { _, ok := luminanceNames[l]; return ok }

// ParseLuminanceMode accepts "weighted", "average" or "max".
func ParseLuminanceMode(s string) (LuminanceMode, error) {
	for l, name := range luminanceNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLuminance, s)
}

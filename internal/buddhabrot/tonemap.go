package buddhabrot

import (
	"fmt"
	"image"
	"math"
)

// ToneMapper turns accumulation counters into an RGBA8 image with histogram based
// auto exposure. It caches the last brightness coefficient so a contrast change can
// be remapped without re-estimating exposure. Not safe for concurrent use.
type ToneMapper struct {
	Luminance LuminanceMode
	Drain     Real // fraction of sampled pixels allowed to clip to white

	brightness     Real
	haveBrightness bool
}

// NewToneMapper validates the luminance mode and clamps drain to
// [MinDrainFraction, MaxDrainFraction]; zero selects DrainFraction.
func NewToneMapper(lum LuminanceMode, drain Real) (*ToneMapper, error) {
	if lum == 0 {
		lum = LuminanceWeighted
	}
	if !lum.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownLuminance, lum)
	}
	return &ToneMapper{Luminance: lum, Drain: clampDrain(drain)}, nil
}

func clampDrain(d Real) Real {
	switch {
	case d == 0 || math.IsNaN(d):
		return DrainFraction
	case d < MinDrainFraction:
		return MinDrainFraction
	case d > MaxDrainFraction:
		return MaxDrainFraction
	}
	return d
}

// Brightness returns the cached exposure coefficient and whether one is cached.
func (tm *ToneMapper) Brightness() (Real, bool) {
	return tm.brightness, tm.haveBrightness
}

// Map estimates exposure from buf, caches it and maps buf into dst.
// dst is allocated when nil or of the wrong size.
func (tm *ToneMapper) Map(buf *Buffer, contrast Real, dst *image.RGBA) (*image.RGBA, error) {
	if err := checkToneInputs(buf, contrast); err != nil {
		return nil, err
	}
	tm.brightness = Exposure(buf, tm.Luminance, tm.Drain)
	tm.haveBrightness = true
	Logger().Debug("exposure", "brightness", tm.brightness, "luminance", tm.Luminance.String(), "drain", tm.Drain)
	return mapPixels(buf, tm.brightness, colorMapFor(contrast), dst), nil
}

// Remap maps buf with the cached brightness, for contrast-only changes.
// Without a cached brightness it behaves like Map.
func (tm *ToneMapper) Remap(buf *Buffer, contrast Real, dst *image.RGBA) (*image.RGBA, error) {
	if !tm.haveBrightness {
		return tm.Map(buf, contrast, dst)
	}
	if err := checkToneInputs(buf, contrast); err != nil {
		return nil, err
	}
	return mapPixels(buf, tm.brightness, colorMapFor(contrast), dst), nil
}

// ToneMap maps buf with weighted luminance and the default drain.
// Apart from the memoized color map it keeps no state between calls.
func ToneMap(buf *Buffer, contrast Real) (*image.RGBA, error) {
	tm := ToneMapper{Luminance: LuminanceWeighted, Drain: DrainFraction}
	return tm.Map(buf, contrast, nil)
}

func checkToneInputs(buf *Buffer, contrast Real) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if !isFinite(contrast) || contrast <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidContrast, contrast)
	}
	return nil
}

func luminance(mode LuminanceMode, r, g, b uint64) Real {
	fr, fg, fb := Real(r), Real(g), Real(b)
	switch mode {
	case LuminanceAverage:
		return (fr + fg + fb) / 3
	case LuminanceMax:
		return math.Max(fr, math.Max(fg, fb))
	default:
		return LumR*fr + LumG*fg + LumB*fb
	}
}

// sampleStride thins the exposure pass on large images.
func sampleStride(pixels int) int {
	switch {
	case pixels < 512*512:
		return 1
	case pixels < 1024*1024:
		return 2
	case pixels < 2048*2048:
		return 3
	}
	return 4
}

// Exposure estimates the brightness coefficient k so that counter*k == 1 is full
// white. The brightest drain fraction of the sampled pixels may clip. An all-black
// buffer yields 1.
func Exposure(buf *Buffer, mode LuminanceMode, drain Real) Real {
	w, h := buf.Width, buf.Height
	stride := sampleStride(w * h)

	var sum Real
	n := 0
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			r, g, b := buf.At(x, y)
			sum += luminance(mode, r, g, b)
			n++
		}
	}
	if n == 0 || sum == 0 {
		return 1
	}
	avg := sum / Real(n)
	k := DefaultBrightnessScale / avg

	var histo [HistogramBins]int
	scale := HistogramBins * HistogramShrinkFactor / avg
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			r, g, b := buf.At(x, y)
			i := luminance(mode, r, g, b) * scale
			if i >= HistogramBins-1 {
				histo[HistogramBins-1]++
				continue
			}
			histo[int(i)]++
		}
	}

	left := clampDrain(drain) * Real(n)
	for i := HistogramBins - 1; i >= 0; i-- {
		val := Real(histo[i])
		if val <= left {
			left -= val
			continue
		}
		pos := (Real(i+1) - left/val) / HistogramBins
		thresh := pos * avg / HistogramShrinkFactor
		return 1 / thresh
	}
	return k
}

func mapPixels(buf *Buffer, k Real, cm *colorMap, dst *image.RGBA) *image.RGBA {
	w, h := buf.Width, buf.Height
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		src := buf.Pix[y*w*Channels:]
		for x := 0; x < w; x++ {
			s := src[x*Channels:]
			d := row[x*4:]
			d[0] = cm.at(Real(s[ChR]) * k)
			d[1] = cm.at(Real(s[ChG]) * k)
			d[2] = cm.at(Real(s[ChB]) * k)
			d[3] = 255
		}
	}
	return dst
}

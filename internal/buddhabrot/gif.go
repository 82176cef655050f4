package buddhabrot

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"

	xdraw "golang.org/x/image/draw"
)

// renderAnimation renders a.Frames images, frame f rotated by f*a.StepDeg on top of
// the configured view. Every frame is an independent session with the same seed, so
// only the projection changes between frames.
func renderAnimation(ctx context.Context, cfg *Config, samples int) ([]*image.RGBA, error) {
	a := cfg.Animation
	step := a.StepDeg.Radians()
	tm, err := cfg.ToneMapper()
	if err != nil {
		return nil, err
	}
	frames := make([]*image.RGBA, 0, a.Frames)
	for f := 0; f < a.Frames; f++ {
		p, err := cfg.BuildRotated(step.Scale(Real(f)))
		if err != nil {
			return nil, err
		}
		s, err := NewSession(p, *cfg.Seed, cfg.Workers)
		if err != nil {
			return nil, err
		}
		if err := s.Render(ctx, samples, cfg.BatchSamples, nil); err != nil {
			return nil, fmt.Errorf("frame %d: %w", f, err)
		}
		img, err := tm.Map(s.Snapshot(nil), cfg.Contrast, nil)
		if err != nil {
			return nil, err
		}
		frames = append(frames, Downscale(img, cfg.Width, cfg.Height))
		if f%max(1, a.Frames/100) == 0 {
			Logger().Info(fmt.Sprintf("[GIF] %.2f%%", Real(f+1)*100/Real(a.Frames)))
		}
	}
	return frames, nil
}

// SaveAnimatedGIF writes the frames as a looping GIF, quantized to the Plan9 palette
// with Floyd-Steinberg dithering. delay is in 100ths of a second.
func SaveAnimatedGIF(frames []*image.RGBA, path string, delay int) error {
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, rgba := range frames {
		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		xdraw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	Logger().Info("animation written", "path", path, "frames", len(frames))
	return nil
}

package buddhabrot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Run renders the image (or animation) described by the config at cfgPath.
func Run(ctx context.Context, cfgPath string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	p, err := cfg.Build()
	if err != nil {
		return err
	}
	mem, err := RequiredMemory(p.Width, p.Height, p.Iterations)
	if err != nil {
		return err
	}
	Logger().Debug("memory", "perWorker", WorkerMemory(p.Width, p.Height, p.Iterations), "total", mem)

	seed := *cfg.Seed
	samples := cfg.Samples
	if samples == 0 {
		if samples, err = SamplesFor(p, cfg.Spp, cfg.ProbeSamples, seed); err != nil {
			return err
		}
	}

	if cfg.Animation != nil {
		start := time.Now()
		frames, err := renderAnimation(ctx, cfg, samples)
		if err != nil {
			return err
		}
		Logger().Debug("animation rendered", "frames", len(frames), "time", time.Since(start))
		return SaveAnimatedGIF(frames, cfg.Animation.Out, cfg.Animation.Delay)
	}

	var (
		resumed *Buffer
		done    uint64
	)
	if cfg.Resume {
		resumed, done, err = LoadRaw(cfg.Raw)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			Logger().Info("nothing to resume, starting fresh", "raw", cfg.Raw)
		case err != nil:
			return err
		default:
			// continue on a different stream than the one already accumulated
			seed += done
		}
	}

	s, err := NewSession(p, seed, cfg.Workers)
	if err != nil {
		return err
	}
	if resumed != nil {
		if err := s.Resume(resumed, done); err != nil {
			return err
		}
		Logger().Info("resumed", "raw", cfg.Raw, "samples", done)
	}

	remaining := samples - int(min(done, uint64(samples)))
	start := time.Now()
	err = s.Render(ctx, remaining, cfg.BatchSamples, progressLogger())
	Logger().Info("render finished", "stats", s.Stats(), "time", time.Since(start))
	if cfg.Raw != "" {
		// keep what was merged even when interrupted, so it can be resumed
		if rerr := SaveRaw(cfg.Raw, s.Snapshot(nil), s.Samples()); rerr != nil && err == nil {
			err = rerr
		}
	}
	if err != nil {
		return err
	}

	tm, err := cfg.ToneMapper()
	if err != nil {
		return err
	}
	img, err := tm.Map(s.Snapshot(nil), cfg.Contrast, nil)
	if err != nil {
		return err
	}
	return SaveImage(Downscale(img, cfg.Width, cfg.Height), cfg.Out)
}

// progressLogger reports progress in roughly 1% steps.
func progressLogger() func(done, total int) {
	last := -1.0
	return func(done, total int) {
		if total <= 0 {
			return
		}
		pct := Real(done) * 100 / Real(total)
		if pct-last < 1 && done < total {
			return
		}
		last = pct
		Logger().Info(fmt.Sprintf("[PROGRESS] %.2f%%", pct))
	}
}

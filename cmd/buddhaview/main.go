package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lukaszgryglicki/buddhabrot/internal/buddhabrot"
)

const (
	rotStepDeg     = 5.0
	contrastStep   = 1.1
	refreshTicks   = 15 // ~4 redraws per second at 60 TPS
	targetStepTime = 100 * time.Millisecond
	minBatch       = 1024
)

// viewer renders progressively in the background and shows the latest tone mapped
// snapshot. Only Update touches the session lifecycle.
type viewer struct {
	cfg      *buddhabrot.Config
	rot      buddhabrot.Rot4
	contrast buddhabrot.Real
	reload   <-chan *buddhabrot.Config

	session *buddhabrot.Session
	tm      *buddhabrot.ToneMapper
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	snap      *buddhabrot.Buffer
	rgba      *image.RGBA
	img       *ebiten.Image
	shown     uint64
	remapOnly bool
	ticks     int
}

func newViewer(cfg *buddhabrot.Config, reload <-chan *buddhabrot.Config) (*viewer, error) {
	v := &viewer{reload: reload}
	if err := v.apply(cfg); err != nil {
		return nil, err
	}
	return v, nil
}

// apply takes a new config and starts over.
func (v *viewer) apply(cfg *buddhabrot.Config) error {
	cfg.Supersample = 1
	tm, err := cfg.ToneMapper()
	if err != nil {
		return err
	}
	v.cfg = cfg
	v.tm = tm
	v.contrast = cfg.Contrast
	v.rot = buddhabrot.Rot4{}
	v.img = ebiten.NewImage(cfg.Width, cfg.Height)
	v.rgba = nil
	v.snap = nil
	return v.restart()
}

// restart aborts the running render, discarding its in-flight batches, and starts
// a new session for the current view.
func (v *viewer) restart() error {
	v.stop()
	p, err := v.cfg.BuildRotated(v.rot)
	if err != nil {
		return err
	}
	s, err := buddhabrot.NewSession(p, *v.cfg.Seed, v.cfg.Workers)
	if err != nil {
		return err
	}
	v.session = s
	v.start()
	return nil
}

// reset clears the running session in place and renders the same view again.
func (v *viewer) reset() {
	v.stop()
	v.session.Reset(*v.cfg.Seed)
	v.start()
}

func (v *viewer) start() {
	v.shown = 0
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.wg.Add(1)
	go func(s *buddhabrot.Session, total uint64, batch int) {
		defer v.wg.Done()
		v.render(ctx, s, total, batch)
	}(v.session, uint64(v.cfg.Samples), v.cfg.BatchSamples)
}

func (v *viewer) stop() {
	if v.cancel != nil {
		v.cancel()
		v.wg.Wait()
		v.cancel = nil
	}
}

// render steps until ctx is done or the configured sample count is reached
// (never, when it is zero). The batch follows the slowest worker so a step takes
// about targetStepTime and a cancel is picked up quickly.
func (v *viewer) render(ctx context.Context, s *buddhabrot.Session, total uint64, batch int) {
	for ctx.Err() == nil {
		if total > 0 && s.Samples() >= total {
			buddhabrot.Logger().Info("render complete", "stats", s.Stats())
			return
		}
		rep, err := s.Step(ctx, batch*s.Workers())
		if err != nil {
			if ctx.Err() == nil {
				buddhabrot.Logger().Error("step failed", "err", err)
			}
			return
		}
		var slowest time.Duration
		for _, d := range rep.Durations {
			slowest = max(slowest, d)
		}
		if slowest > 0 {
			scale := math.Min(4, float64(targetStepTime)/float64(slowest))
			batch = max(minBatch, int(float64(batch)*scale))
		}
	}
}

func (v *viewer) Update() error {
	select {
	case cfg := <-v.reload:
		if err := v.apply(cfg); err != nil {
			buddhabrot.Logger().Error("apply config", "err", err)
		} else {
			buddhabrot.Logger().Info("config reloaded")
		}
	default:
	}

	step := rotStepDeg * math.Pi / 180
	var d buddhabrot.Rot4
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		d.BCx = -step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		d.BCx = step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		d.ACy = step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		d.ACy = -step
	}
	if d != (buddhabrot.Rot4{}) {
		v.rot = v.rot.Add(d)
		if err := v.restart(); err != nil {
			return err
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		v.contrast *= contrastStep
		v.remapOnly = true
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		v.contrast /= contrastStep
		v.remapOnly = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.contrast = v.cfg.Contrast
		if v.rot == (buddhabrot.Rot4{}) {
			v.reset()
		} else {
			v.rot = buddhabrot.Rot4{}
			if err := v.restart(); err != nil {
				return err
			}
		}
	}

	v.ticks++
	if v.remapOnly && v.snap != nil {
		rgba, err := v.tm.Remap(v.snap, v.contrast, v.rgba)
		if err != nil {
			return err
		}
		v.show(rgba)
		v.remapOnly = false
	}
	if v.ticks%refreshTicks == 0 {
		if n := v.session.Samples(); n != v.shown {
			v.snap = v.session.Snapshot(v.snap)
			rgba, err := v.tm.Map(v.snap, v.contrast, v.rgba)
			if err != nil {
				return err
			}
			v.show(rgba)
			v.shown = n
		}
	}
	return nil
}

func (v *viewer) show(rgba *image.RGBA) {
	v.rgba = rgba
	v.img.WritePixels(rgba.Pix)
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	buddhabrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := "configs/config.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := buddhabrot.LoadConfig(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	reload := make(chan *buddhabrot.Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := watchConfig(ctx, path, reload); err != nil {
			buddhabrot.Logger().Warn("config watcher stopped", "err", err)
		}
	}()

	v, err := newViewer(cfg, reload)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer v.stop()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Buddhabrot - rotate: arrows | contrast: +/- | reset: R")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

package buddhabrot

import (
	"fmt"
	"log/slog"
)

// Params describes one render: what to sample and how to plot it.
type Params struct {
	Width, Height int
	Iterations    int
	ColorOffset   Real // hue rotation for the hue modes, in turns
	Points        PointsMode
	Color         ColorMode
	Escape        EscapeTest // zero means EscapeCircle
	Transform     Transform
}

// Validate checks every precondition of sampling.
func (p Params) Validate() error {
	if err := checkDimensions(p.Width, p.Height); err != nil {
		return err
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidIterationBound, p.Iterations)
	}
	if !p.Points.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownPointsMode, p.Points)
	}
	if !p.Color.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownColorMode, p.Color)
	}
	if p.Escape != 0 && !p.Escape.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownEscapeTest, p.Escape)
	}
	if !isFinite(p.ColorOffset) {
		return fmt.Errorf("%w: color offset %v", ErrInvalidTransform, p.ColorOffset)
	}
	return p.Transform.Validate()
}

func (p Params) escape() EscapeTest {
	if p.Escape == 0 {
		return EscapeCircle
	}
	return p.Escape
}

func (p Params) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("width", p.Width),
		slog.Int("height", p.Height),
		slog.Int("iterations", p.Iterations),
		slog.String("points", p.Points.String()),
		slog.String("color", p.Color.String()),
		slog.String("escape", p.escape().String()),
		slog.Float64("colorOffset", p.ColorOffset),
		slog.Any("transform", p.Transform),
	)
}

// Sampler is one independent sampling stream: a seeded PCG32 and its trajectory
// scratch. It is not safe for concurrent use.
type Sampler struct {
	params Params
	rng    *PCG32
	traj   *Trajectory
}

// NewSampler validates p and seeds a fresh stream.
func NewSampler(p Params, seed uint64) (*Sampler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{
		params: p,
		rng:    NewPCG32(seed),
		traj:   NewTrajectory(p.Iterations),
	}, nil
}

// Accumulate draws n samples and deposits their trajectories into buf.
// The buffer is checked before any write; n == 0 leaves it untouched.
func (s *Sampler) Accumulate(buf *Buffer, n int) (Stats, error) {
	var st Stats
	if n < 0 {
		return st, fmt.Errorf("sample count must be >= 0, got %d", n)
	}
	if err := buf.Validate(); err != nil {
		return st, err
	}
	p := &s.params
	if buf.Width != p.Width || buf.Height != p.Height {
		return st, fmt.Errorf("%w: buffer is %dx%d, params want %dx%d", ErrBufferSizeMismatch, buf.Width, buf.Height, p.Width, p.Height)
	}

	t := s.traj
	t.Resize(p.Iterations)
	esc := p.escape()
	wantEscaped := p.Points == PointsOuter
	perPoint := p.Color.perPoint()
	m := &p.Transform
	w, h := p.Width, p.Height

	for i := 0; i < n; i++ {
		cx := s.rng.Unit()
		cy := s.rng.Unit()
		t.Iterate(cx, cy, esc)
		st.Samples++
		if t.Escaped {
			st.Outer++
		} else {
			st.Inner++
		}
		if t.Escaped != wantEscaped {
			st.Skipped++
			continue
		}

		lo, hi := t.Window()
		if lo > hi {
			continue
		}
		var inc RGB
		if !perPoint {
			inc = trajectoryColor(p.Color, t, p.ColorOffset)
		}
		for j := lo; j <= hi; j++ {
			pt := t.Points[j]
			ux, uy := m.Project(pt.A, pt.B, cx, cy)
			x, okX := PixelOf(ux, w)
			y, okY := PixelOf(uy, h)
			if !okX || !okY {
				st.Clipped++
				continue
			}
			if perPoint {
				inc = pointColor(p.Color, t, j, p.ColorOffset)
			}
			buf.add(buf.idx(x, y), inc)
			st.Plotted++
		}
	}
	return st, nil
}

// SampleAndAccumulate seeds a new stream with seed, draws n samples and adds
// them to buf. Nothing is written when any precondition fails.
func SampleAndAccumulate(buf *Buffer, p Params, n int, seed uint64) (Stats, error) {
	s, err := NewSampler(p, seed)
	if err != nil {
		return Stats{}, err
	}
	return s.Accumulate(buf, n)
}

package buddhabrot

import "log/slog"

// Stats counts what happened to the samples of one or more sampling calls.
type Stats struct {
	Samples uint64 // drawn c values
	Inner   uint64 // never escaped
	Outer   uint64 // escaped
	Skipped uint64 // rejected by the points mode
	Plotted uint64 // points deposited into the buffer
	Clipped uint64 // points projected outside the viewport
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Samples += o.Samples
	s.Inner += o.Inner
	s.Outer += o.Outer
	s.Skipped += o.Skipped
	s.Plotted += o.Plotted
	s.Clipped += o.Clipped
}

// Yield is the mean number of plotted points per sample.
func (s Stats) Yield() Real {
	if s.Samples == 0 {
		return 0
	}
	return Real(s.Plotted) / Real(s.Samples)
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("samples", s.Samples),
		slog.Uint64("inner", s.Inner),
		slog.Uint64("outer", s.Outer),
		slog.Uint64("skipped", s.Skipped),
		slog.Uint64("plotted", s.Plotted),
		slog.Uint64("clipped", s.Clipped),
	)
}

package buddhabrot

import (
	"context"
	"errors"
	"testing"
)

func sameBuffers(t *testing.T, a, b *Buffer) {
	t.Helper()
	if a.Width != b.Width || a.Height != b.Height {
		t.Fatalf("shape %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("counter %d: %d != %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestSessionSingleWorkerMatchesSampler(t *testing.T) {
	p := outerParams(48, 48, 60)
	s, err := NewSession(p, 21, 1)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// more than one cancellation chunk
	rep, err := s.Step(context.Background(), 3*chunkSamples+5)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if rep.Samples != 3*chunkSamples+5 || s.Samples() != rep.Samples {
		t.Fatalf("samples: report %d, session %d", rep.Samples, s.Samples())
	}
	if len(rep.Durations) != 1 {
		t.Fatalf("durations: %v", rep.Durations)
	}

	want, _ := NewBuffer(48, 48)
	st, err := SampleAndAccumulate(want, p, 3*chunkSamples+5, 21)
	if err != nil {
		t.Fatalf("SampleAndAccumulate: %v", err)
	}
	if s.Stats() != st {
		t.Fatalf("stats %+v, want %+v", s.Stats(), st)
	}
	sameBuffers(t, s.Snapshot(nil), want)
}

func TestSessionDeterministic(t *testing.T) {
	p := outerParams(32, 32, 50)
	run := func() *Buffer {
		s, err := NewSession(p, 9, 3)
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		for i := 0; i < 2; i++ {
			if _, err := s.Step(context.Background(), 10001); err != nil {
				t.Fatalf("Step: %v", err)
			}
		}
		if s.Samples() != 20002 {
			t.Fatalf("samples: %d", s.Samples())
		}
		return s.Snapshot(nil)
	}
	sameBuffers(t, run(), run())
}

func TestSessionCancelDiscards(t *testing.T) {
	p := outerParams(32, 32, 50)
	s, err := NewSession(p, 4, 4)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.Step(context.Background(), 4000); err != nil {
		t.Fatalf("Step: %v", err)
	}
	before := s.Snapshot(nil)
	n := s.Samples()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := s.Step(ctx, 100000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if rep.Samples != 0 || s.Samples() != n {
		t.Fatalf("cancelled step merged samples: report %d, session %d -> %d", rep.Samples, n, s.Samples())
	}
	sameBuffers(t, s.Snapshot(nil), before)

	if err := s.Render(ctx, 1000, 100, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render: got %v", err)
	}
	sameBuffers(t, s.Snapshot(nil), before)
}

func TestSessionResetAndResume(t *testing.T) {
	p := outerParams(32, 32, 40)
	s, err := NewSession(p, 5, 2)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.Step(context.Background(), 5000); err != nil {
		t.Fatalf("Step: %v", err)
	}
	first := s.Snapshot(nil)

	s.Reset(5)
	if s.Samples() != 0 || s.Snapshot(nil).Total() != 0 {
		t.Fatalf("Reset must clear the session")
	}
	if _, err := s.Step(context.Background(), 5000); err != nil {
		t.Fatalf("Step: %v", err)
	}
	sameBuffers(t, s.Snapshot(nil), first)

	if err := s.Resume(first, 123); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.Samples() != 123 {
		t.Fatalf("resumed samples: %d", s.Samples())
	}
	small, _ := NewBuffer(8, 8)
	if err := s.Resume(small, 1); !errors.Is(err, ErrBufferSizeMismatch) {
		t.Fatalf("got %v, want ErrBufferSizeMismatch", err)
	}

	// Snapshot reuses a buffer of the right shape
	dst, _ := NewBuffer(32, 32)
	if got := s.Snapshot(dst); got != dst {
		t.Fatalf("Snapshot must fill dst")
	}
}

func TestSessionRenderProgress(t *testing.T) {
	p := outerParams(16, 16, 30)
	s, err := NewSession(p, 1, 2)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.SetWorkers(3)
	if s.Workers() != 3 {
		t.Fatalf("workers: %d", s.Workers())
	}
	calls, last := 0, 0
	err = s.Render(context.Background(), 10000, 1000, func(done, total int) {
		calls++
		if done < last || total != 10000 {
			t.Fatalf("progress went backwards: %d after %d", done, last)
		}
		last = done
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if last != 10000 || s.Samples() != 10000 || calls != 4 {
		t.Fatalf("done %d, samples %d, calls %d", last, s.Samples(), calls)
	}
}

func TestNewSessionValidates(t *testing.T) {
	p := outerParams(0, 16, 30)
	if _, err := NewSession(p, 1, 1); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("got %v, want ErrInvalidDimension", err)
	}
	s, err := NewSession(outerParams(8, 8, 10), 1, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Workers() < 1 {
		t.Fatalf("default workers: %d", s.Workers())
	}
	if _, err := s.Step(context.Background(), -1); err == nil {
		t.Fatalf("negative sample count accepted")
	}
}

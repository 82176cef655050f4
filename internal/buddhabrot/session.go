package buddhabrot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// chunkSamples is how often a worker checks for cancellation.
const chunkSamples = 8192

// worker owns one sampling stream and its partial buffer.
type worker struct {
	id      int
	sampler *Sampler
	partial *Buffer
}

// Session accumulates one render across many progressive steps.
//
// Every worker has a private PCG32 stream, seeded once, and a private partial
// buffer. Partial buffers are merged into the shared buffer one at a time under
// the session lock; a cancelled step merges nothing from workers that saw the
// cancellation. The number of workers used per step is a tunable.
type Session struct {
	params Params
	seed   uint64

	mu      sync.Mutex // guards everything below
	buf     *Buffer
	stats   Stats
	workers []*worker
	desired int
}

// StepReport describes one progressive step.
type StepReport struct {
	Samples   uint64          // samples merged in this step
	Durations []time.Duration // per-worker wall time, for external throttling
	Stats     Stats
}

// NewSession validates p and allocates the shared buffer.
// workers <= 0 selects runtime.NumCPU().
func NewSession(p Params, seed uint64, workers int) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := RequiredMemory(p.Width, p.Height, p.Iterations); err != nil {
		return nil, err
	}
	buf, err := NewBuffer(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	s := &Session{params: p, seed: seed, buf: buf}
	s.SetWorkers(workers)
	Logger().Info("session created", "params", p, "seed", seed, "workers", s.desired)
	return s, nil
}

// streamSeed spreads worker ids over the PCG32 stream space.
func streamSeed(seed uint64, id int) uint64 {
	return seed ^ uint64(id)*0x9e3779b97f4a7c15
}

// SetWorkers sets the number of workers used by the next steps.
// Workers are created lazily and keep their streams when the count shrinks.
func (s *Session) SetWorkers(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	n = imax(n, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desired = n
}

// Workers returns the desired worker count.
func (s *Session) Workers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desired
}

// activeWorkers returns the first n workers, creating missing ones. Callers hold mu.
func (s *Session) activeWorkers(n int) ([]*worker, error) {
	for len(s.workers) < n {
		id := len(s.workers)
		sm, err := NewSampler(s.params, streamSeed(s.seed, id))
		if err != nil {
			return nil, err
		}
		partial, err := NewBuffer(s.params.Width, s.params.Height)
		if err != nil {
			return nil, err
		}
		s.workers = append(s.workers, &worker{id: id, sampler: sm, partial: partial})
	}
	return s.workers[:n], nil
}

// Samples returns the number of samples merged so far.
func (s *Session) Samples() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Samples
}

// Stats returns the merged statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Snapshot copies the shared buffer into dst (allocated when nil or misshapen).
func (s *Session) Snapshot(dst *Buffer) *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dst == nil || dst.sameShape(s.buf) != nil {
		return s.buf.Clone()
	}
	_ = dst.Replace(s.buf)
	return dst
}

// Reset clears the shared buffer and reseeds every stream, starting a new session.
// It must not run concurrently with Step.
func (s *Session) Reset(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
	s.buf.Clear()
	s.stats = Stats{}
	for _, w := range s.workers {
		w.sampler.rng.Seed(streamSeed(seed, w.id))
	}
	Logger().Debug("session reset", "seed", seed)
}

// Resume replaces the shared buffer with a previously saved one and continues
// counting from samples.
func (s *Session) Resume(buf *Buffer, samples uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.buf.Replace(buf); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	s.stats = Stats{Samples: samples}
	return nil
}

// Step draws samples spread evenly over the workers and merges the partial buffers.
// When ctx is cancelled the in-flight workers stop at the next chunk and their
// partial buffers are dropped; what was merged before stays.
func (s *Session) Step(ctx context.Context, samples int) (StepReport, error) {
	var rep StepReport
	if samples < 0 {
		return rep, fmt.Errorf("sample count must be >= 0, got %d", samples)
	}
	s.mu.Lock()
	n := s.desired
	workers, err := s.activeWorkers(n)
	s.mu.Unlock()
	if err != nil {
		return rep, err
	}
	if samples == 0 {
		return rep, nil
	}

	base, rem := samples/n, samples%n
	rep.Durations = make([]time.Duration, n)
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range workers {
		count := base
		if i < rem {
			count++
		}
		if count == 0 {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			defer func() { rep.Durations[i] = time.Since(start) }()

			w.partial.Clear()
			var st Stats
			for done := 0; done < count; {
				if err := gctx.Err(); err != nil {
					return err
				}
				c := min(chunkSamples, count-done)
				cs, err := w.sampler.Accumulate(w.partial, c)
				if err != nil {
					return err
				}
				st.Add(cs)
				done += c
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.buf.Merge(w.partial); err != nil {
				return err
			}
			s.stats.Add(st)
			rep.Samples += st.Samples
			rep.Stats.Add(st)
			return nil
		})
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		Logger().Warn("step aborted, partial buffers discarded", "merged", rep.Samples, "requested", samples)
	}
	Logger().Debug("step", "samples", rep.Samples, "workers", n, "durations", rep.Durations)
	return rep, err
}

// Render runs steps of at most batch samples per worker until total samples have been
// merged or ctx is done. progress, when set, is called after every step.
func (s *Session) Render(ctx context.Context, total, batch int, progress func(done, total int)) error {
	if total < 0 {
		return fmt.Errorf("sample count must be >= 0, got %d", total)
	}
	if batch <= 0 {
		batch = BatchSamples
	}
	done := 0
	for done < total {
		step := min(batch*s.Workers(), total-done)
		rep, err := s.Step(ctx, step)
		done += int(rep.Samples)
		if progress != nil {
			progress(done, total)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

package buddhabrot

// PCG32 is the minimal PCG XSH RR generator: 64-bit LCG state, 32-bit output.
// It is not safe for concurrent use; give every worker its own instance.
//
// See https://www.pcg-random.org/download.html.
type PCG32 struct {
	state uint64
	inc   uint64
}

const pcgMultiplier = 6364136223846793005

// NewPCG32 returns a generator seeded with Seed(seq).
func NewPCG32(seq uint64) *PCG32 {
	p := &PCG32{}
	p.Seed(seq)
	return p
}

// Seed resets the generator to stream seq with zero initial state,
// the way pcg32_srandom(0, seq) does.
func (p *PCG32) Seed(seq uint64) {
	p.SeedState(0, seq)
}

// SeedState is the canonical pcg32_srandom_r: both state and stream are replaced
// and the first output is discarded.
func (p *PCG32) SeedState(initState, seq uint64) {
	p.state = 0
	p.inc = seq<<1 | 1
	p.Uint32()
	p.state += initState
	p.Uint32()
}

// Uint32 returns the next output.
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.state = old*pcgMultiplier + p.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return xorshifted>>rot | xorshifted<<((-rot)&31)
}

// Uint64 joins two outputs, so a *PCG32 is a math/rand/v2 Source.
func (p *PCG32) Uint64() uint64 {
	return uint64(p.Uint32())<<32 | uint64(p.Uint32())
}

// Unit maps the next output to [-DomainHalf, DomainHalf], both ends included.
func (p *PCG32) Unit() Real {
	return Real(p.Uint32())/Real(^uint32(0))*DomainSpan - DomainHalf
}

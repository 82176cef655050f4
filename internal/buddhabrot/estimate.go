package buddhabrot

import (
	"math"
)

// estimateYield runs a probe of trials samples into a scratch buffer and returns
// the mean number of plotted points per sample.
func estimateYield(p Params, seed uint64, trials int) (Real, error) {
	if trials <= 0 {
		return 0, nil
	}
	buf, err := NewBuffer(p.Width, p.Height)
	if err != nil {
		return 0, err
	}
	st, err := SampleAndAccumulate(buf, p, trials, seed)
	if err != nil {
		return 0, err
	}
	Logger().Debug("probe", "stats", st, "yield", st.Yield())
	return st.Yield(), nil
}

// SamplesFor returns how many samples give about spp plotted points per pixel,
// estimated from a probe of probe samples. It never returns less than probe.
func SamplesFor(p Params, spp, probe int, seed uint64) (int, error) {
	if spp <= 0 {
		spp = Spp
	}
	if probe <= 0 {
		probe = ProbeSamples
	}
	yield, err := estimateYield(p, seed, probe)
	if err != nil {
		return 0, err
	}
	if yield == 0 {
		Logger().Warn("probe plotted nothing, falling back to probe size", "probe", probe, "points", p.Points.String())
		return probe, nil
	}
	want := Real(spp) * Real(p.Width) * Real(p.Height) / yield
	if want > math.MaxInt32 {
		want = math.MaxInt32
	}
	n := imax(int(math.Ceil(want)), probe)
	Logger().Info("estimated samples", "yield", yield, "spp", spp, "samples", n)
	return n, nil
}

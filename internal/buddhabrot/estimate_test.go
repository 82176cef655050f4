package buddhabrot

import (
	"math"
	"testing"
)

func TestSamplesFor(t *testing.T) {
	p := outerParams(32, 32, 50)
	yield, err := estimateYield(p, 1, 5000)
	if err != nil {
		t.Fatalf("estimateYield: %v", err)
	}
	if yield <= 0 {
		t.Fatalf("yield: %v", yield)
	}
	n, err := SamplesFor(p, 4, 5000, 1)
	if err != nil {
		t.Fatalf("SamplesFor: %v", err)
	}
	want := imax(int(math.Ceil(4*32*32/yield)), 5000)
	if n != want {
		t.Fatalf("got %d, want %d", n, want)
	}
}

func TestSamplesForZeroYield(t *testing.T) {
	// a single iteration never plots anything
	p := outerParams(16, 16, 1)
	n, err := SamplesFor(p, 4, 1000, 1)
	if err != nil {
		t.Fatalf("SamplesFor: %v", err)
	}
	if n != 1000 {
		t.Fatalf("zero yield must fall back to the probe size, got %d", n)
	}
}

package game

import "testing"

func TestRNGStreamIsDeterministic(t *testing.T) {
	a := NewRNG(12345)
	b := NewRNG(12345)
	for i := 0; i < 1_000; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
	c := NewRNG(12346)
	if a0, c0 := NewRNG(12345).Next(), c.Next(); a0 == c0 {
		t.Fatalf("different seeds produced the same first draw")
	}
}

func TestRNGFastForwardMatchesSequentialDraws(t *testing.T) {
	seq := NewRNG(777)
	for i := 0; i < 100; i++ {
		seq.Next()
	}
	jump := At(777, seq.Draws())
	for i := 0; i < 50; i++ {
		if x, y := seq.Next(), jump.Next(); x != y {
			t.Fatalf("fast-forward diverged at draw %d: %v vs %v", i, x, y)
		}
	}
	if seq.Draws() != jump.Draws() {
		t.Fatalf("cursors diverged: %d vs %d", seq.Draws(), jump.Draws())
	}
}

func TestRNGBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 10_000; i++ {
		v := r.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("Next out of range: %v", v)
		}
	}
	for i := 0; i < 10_000; i++ {
		n := r.IntN(7)
		if n < 0 || n >= 7 {
			t.Fatalf("IntN out of range: %d", n)
		}
	}
	for i := 0; i < 1_000; i++ {
		v := r.Between(2.5, 3.5)
		if v < 2.5 || v >= 3.5 {
			t.Fatalf("Between out of range: %v", v)
		}
	}
}

func TestWeightedAlwaysConsumesOneDraw(t *testing.T) {
	r := NewRNG(5)
	before := r.Draws()
	r.Weighted([]float64{0.2, 0.5, 0.3})
	if r.Draws() != before+1 {
		t.Fatalf("weighted draw count: %d", r.Draws()-before)
	}
	before = r.Draws()
	idx := r.Weighted([]float64{0, 0, 0})
	if r.Draws() != before+1 {
		t.Fatalf("zero-weight draw count: %d", r.Draws()-before)
	}
	if idx != 2 {
		t.Fatalf("zero-weight index %d", idx)
	}
}

func TestWeightedRespectsWeights(t *testing.T) {
	r := NewRNG(9)
	counts := [3]int{}
	for i := 0; i < 10_000; i++ {
		counts[r.Weighted([]float64{0.8, 0.1, 0.1})]++
	}
	if counts[0] < 7_000 {
		t.Fatalf("heavy bucket drew %d of 10000", counts[0])
	}
	if counts[1] == 0 || counts[2] == 0 {
		t.Fatalf("light buckets starved: %v", counts)
	}
}

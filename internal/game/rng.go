package game

// RNG is the single randomness source of the engine. It is a SplitMix64
// stream keyed by a 32-bit seed; every draw advances the state by exactly one
// step, so the stream position is fully described by (seed, draws) and can be
// reconstructed in O(1). The engine deliberately does not use math/rand: its
// stream is not guaranteed stable across Go releases, and challenge replays
// must produce identical results on whatever toolchain either player runs.
type RNG struct {
	state uint64
	draws int64
}

const splitmixGamma = 0x9E3779B97F4A7C15

func NewRNG(seed uint32) *RNG {
	return &RNG{state: uint64(seed)}
}

// At returns an RNG fast-forwarded to a previously recorded draw cursor.
func At(seed uint32, draws int64) *RNG {
	return &RNG{state: uint64(seed) + uint64(draws)*splitmixGamma, draws: draws}
}

func (r *RNG) Draws() int64 {
	return r.draws
}

// Next returns a float in [0, 1) with 53 bits of precision.
func (r *RNG) Next() float64 {
	r.state += splitmixGamma
	r.draws++
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

// IntN returns an int in [0, n). n must be positive.
func (r *RNG) IntN(n int) int {
	v := int(r.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns a float in [lo, hi).
func (r *RNG) Between(lo, hi float64) float64 {
	return lo + r.Next()*(hi-lo)
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Next() < p
}

// Weighted returns an index drawn proportionally to weights. Non-positive
// weights are treated as zero; if all weights are zero the last index wins.
func (r *RNG) Weighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		r.Next() // keep the draw count consistent
		return len(weights) - 1
	}
	target := r.Next() * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

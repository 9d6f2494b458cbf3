package town

// Multiplier and increment of the linear congruential generator,
// taken from Knuth's MMIX.
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// Random is a seeded pseudo random number generator. For the same seed
// it yields the same sequence of values on every platform. It is the only
// source of randomness the generator may consume.
type Random struct {
	state uint64
}

func NewRandom(seed uint64) *Random {
	return &Random{state: seed}
}

// Next advances the generator and returns the new state.
func (r *Random) Next() uint64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return r.state
}

// Float returns a value in [0, 1) built from the 24 high bits of Next.
// 24 bits fit exactly into the float32 mantissa, so 1.0 is never returned.
func (r *Random) Float() float32 {
	return float32(r.Next()>>40) / (1 << 24)
}

// Range returns a value in [lo, hi).
func (r *Random) Range(lo, hi float32) float32 {
	// the explicit conversion prevents a fused multiply-add, which would
	// make the result differ between architectures
	return lo + float32(r.Float()*(hi-lo))
}

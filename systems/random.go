package systems

import "math/rand"

// Source is the random stream shared by all behavior decisions in a run.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ScriptedSource replays fixed values. Once a script is exhausted it keeps
// returning its last value (or zero if the script is empty).
type ScriptedSource struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[min(s.fi, len(s.Floats)-1)]
	s.fi++
	return v
}

// Intn returns the next scripted int reduced modulo n.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("systems: Intn called with n <= 0")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[min(s.ii, len(s.Ints)-1)]
	s.ii++
	return ((v % n) + n) % n
}

// Draws reports how many floats and ints have been consumed.
func (s *ScriptedSource) Draws() (floats, ints int) {
	return s.fi, s.ii
}

package reasons

import "math/rand/v2"

// Bounds of the cosmetic visitor counter shown on HTML pages.
const (
	VisitorCountMin = 1337
	VisitorCountMax = 999999
)

// Rand is the randomness a Selector draws from. IntN returns a value in [0, n).
// *rand.Rand from math/rand/v2 satisfies it but is not safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the math/rand/v2 top-level functions, which are safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// Selector picks catalog entries at random.
type Selector struct {
	rand Rand
}

// NewSelector builds a Selector over r. A nil r uses a concurrency-safe global source.
func NewSelector(r Rand) *Selector {
	if r == nil {
		r = globalRand{}
	}
	return &Selector{rand: r}
}

// Random returns an entry chosen uniformly from the whole catalog.
// An empty catalog yields Placeholder.
func (s *Selector) Random(c Catalog) Entry {
	if c.Len() == 0 {
		return Placeholder
	}
	return c.At(s.rand.IntN(c.Len()))
}

// RandomByCategory returns an entry chosen uniformly among those whose Category equals category
// exactly. When none match it falls back to Random over the whole catalog.
func (s *Selector) RandomByCategory(c Catalog, category string) Entry {
	var matches []int
	for i := range c.Len() {
		if c.At(i).Category == category {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return s.Random(c)
	}
	return c.At(matches[s.rand.IntN(len(matches))])
}

// VisitorCount returns a made-up visitor number in [VisitorCountMin, VisitorCountMax].
func (s *Selector) VisitorCount() int {
	return VisitorCountMin + s.rand.IntN(VisitorCountMax-VisitorCountMin+1)
}

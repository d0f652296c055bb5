package reasons

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorRandomUsesInjectedRand(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "m0", Reason: "r0"},
		{Message: "m1", Reason: "r1"},
		{Message: "m2", Reason: "r2"},
	})
	sel := NewSelector(&seqRand{vals: []int{2, 0, 1}})

	require.Equal(t, "m2", sel.Random(catalog).Message)
	require.Equal(t, "m0", sel.Random(catalog).Message)
	require.Equal(t, "m1", sel.Random(catalog).Message)
}

func TestSelectorRandomEmptyCatalogYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	sel := NewSelector(nil)
	require.Equal(t, Placeholder, sel.Random(Catalog{}))
}

func TestSelectorRandomByCategoryOnlyReturnsMatches(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "a", Reason: "r", Category: "sassy"},
		{Message: "b", Reason: "r", Category: "gaming"},
		{Message: "c", Reason: "r"},
		{Message: "d", Reason: "r", Category: "gaming"},
	})
	sel := NewSelector(nil)

	for range 50 {
		got := sel.RandomByCategory(catalog, "gaming")
		require.Equal(t, "gaming", got.Category)
	}
}

func TestSelectorRandomByCategoryIndexesFilteredSet(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "a", Reason: "r", Category: "gaming"},
		{Message: "b", Reason: "r", Category: "sassy"},
		{Message: "c", Reason: "r", Category: "gaming"},
	})
	sel := NewSelector(&seqRand{vals: []int{1}})

	require.Equal(t, "c", sel.RandomByCategory(catalog, "gaming").Message)
}

func TestSelectorRandomByCategoryFallsBackWhenNoneMatch(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "a", Reason: "r", Category: "sassy"},
		{Message: "b", Reason: "r", Category: "science"},
	})
	sel := NewSelector(&seqRand{vals: []int{1}})

	got := sel.RandomByCategory(catalog, "gaming")
	require.Equal(t, "b", got.Message)
}

func TestSelectorRandomByCategoryIsCaseSensitive(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "upper", Reason: "r", Category: "Gaming"},
		{Message: "lower", Reason: "r", Category: "gaming"},
	})
	sel := NewSelector(&seqRand{vals: []int{0}})

	require.Equal(t, "lower", sel.RandomByCategory(catalog, "gaming").Message)
}

func TestSelectorRandomByCategoryIgnoresUncategorizedForModern(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "plain", Reason: "r"},
		{Message: "modern", Reason: "r", Category: "modern"},
	})
	sel := NewSelector(&seqRand{vals: []int{0}})

	require.Equal(t, "modern", sel.RandomByCategory(catalog, "modern").Message)
}

func TestSelectorVisitorCountBounds(t *testing.T) {
	t.Parallel()

	low := NewSelector(&seqRand{vals: []int{0}})
	require.Equal(t, VisitorCountMin, low.VisitorCount())

	high := NewSelector(&seqRand{vals: []int{VisitorCountMax - VisitorCountMin}})
	require.Equal(t, VisitorCountMax, high.VisitorCount())

	sel := NewSelector(nil)
	for range 100 {
		n := sel.VisitorCount()
		require.GreaterOrEqual(t, n, VisitorCountMin)
		require.LessOrEqual(t, n, VisitorCountMax)
	}
}

func TestSelectorRandomVariesAcrossCalls(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Message: "one", Reason: "r"},
		{Message: "two", Reason: "r"},
		{Message: "three", Reason: "r"},
		{Message: "four", Reason: "r"},
	})
	sel := NewSelector(nil)
	seen := map[string]struct{}{}
	for range 64 {
		seen[sel.Random(catalog).Message] = struct{}{}
	}
	require.Greater(t, len(seen), 1)
}

// seqRand replays vals in order, reducing each modulo n.
type seqRand struct {
	mu   sync.Mutex
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

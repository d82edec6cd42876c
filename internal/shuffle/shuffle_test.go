package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func permute(f Func, n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i
	}
	f(n, func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	return xs
}

func isPermutation(xs []int) bool {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	for i, v := range sorted {
		if v != i {
			return false
		}
	}
	return true
}

func TestRandomIsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 14, 100} {
		assert.True(t, isPermutation(permute(Random(), n)), "n=%d", n)
	}
}

func TestRandomIsRoughlyUniform(t *testing.T) {
	// Position of element 0 after shuffling 4 elements, over many runs.
	const runs = 8000
	var counts [4]int
	f := Random()
	for i := 0; i < runs; i++ {
		xs := permute(f, 4)
		counts[slices.Index(xs, 0)]++
	}
	for pos, c := range counts {
		// Expect ~2000 per slot; allow a wide band.
		assert.InDelta(t, runs/4, c, 300, "slot %d", pos)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a := permute(Seeded("salt", "2026-10-19"), 20)
	b := permute(Seeded("salt", "2026-10-19"), 20)
	c := permute(Seeded("salt", "2026-10-20"), 20)

	assert.True(t, isPermutation(a))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	f := Seeded("other", "key")
	assert.Equal(t, permute(f, 20), permute(f, 20), "repeated calls on one Func agree")
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, permute(Identity(), 4))
}

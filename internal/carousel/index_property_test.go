//go:build property
// +build property

package carousel

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestIndexArithmeticProperties checks the navigation contract over random
// collection sizes and positions.
func TestIndexArithmeticProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: n steps forward with loop return to the start
	properties.Property("loop cycle is identity", prop.ForAll(
		func(n, offset int) bool {
			start := offset % n
			idx := start
			for i := 0; i < n; i++ {
				idx = NextIndex(idx, n, true)
			}
			return idx == start
		},
		gen.IntRange(2, 200),
		gen.IntRange(0, 10_000),
	))

	// Property: previous undoes next whenever next moved
	properties.Property("previous inverts next", prop.ForAll(
		func(n, offset int, loop bool) bool {
			i := offset % n
			next := NextIndex(i, n, loop)
			if next == i {
				return true
			}
			return PreviousIndex(next, n, loop) == i
		},
		gen.IntRange(1, 200),
		gen.IntRange(0, 10_000),
		gen.Bool(),
	))

	// Property: results always stay in range
	properties.Property("indexes stay in bounds", prop.ForAll(
		func(n, offset int, loop bool) bool {
			i := offset % n
			next := NextIndex(i, n, loop)
			prev := PreviousIndex(i, n, loop)
			return next >= 0 && next < n && prev >= 0 && prev < n
		},
		gen.IntRange(1, 200),
		gen.IntRange(0, 10_000),
		gen.Bool(),
	))

	// Property: HasNext agrees with NextIndex moving
	properties.Property("has-next matches movement", prop.ForAll(
		func(n, offset int, loop bool) bool {
			i := offset % n
			moved := NextIndex(i, n, loop) != i
			back := PreviousIndex(i, n, loop) != i
			return HasNext(i, n, loop) == moved && HasPrevious(i, n, loop) == back
		},
		gen.IntRange(1, 200),
		gen.IntRange(0, 10_000),
		gen.Bool(),
	))

	// Property: clamping always lands in range
	properties.Property("clamp lands in range", prop.ForAll(
		func(index, n int) bool {
			got := ClampIndex(index, n)
			if n == 0 {
				return got == 0
			}
			return got >= 0 && got < n
		},
		gen.IntRange(-50, 500),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name    string
		current int
		length  int
		loop    bool
		want    int
	}{
		{"empty collection is unchanged", 0, 0, true, 0},
		{"empty collection without loop", 3, 0, false, 3},
		{"middle advances", 1, 3, false, 2},
		{"last sticks without loop", 2, 3, false, 2},
		{"last wraps with loop", 2, 3, true, 0},
		{"single item with loop", 0, 1, true, 0},
		{"single item without loop", 0, 1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextIndex(tt.current, tt.length, tt.loop))
		})
	}
}

func TestPreviousIndex(t *testing.T) {
	tests := []struct {
		name    string
		current int
		length  int
		loop    bool
		want    int
	}{
		{"empty collection is unchanged", 0, 0, true, 0},
		{"middle rewinds", 1, 3, false, 0},
		{"first sticks without loop", 0, 3, false, 0},
		{"first wraps with loop", 0, 3, true, 2},
		{"last rewinds with loop", 2, 3, true, 1},
		{"single item with loop", 0, 1, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviousIndex(tt.current, tt.length, tt.loop))
		})
	}
}

func TestHasNextHasPrevious(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		length      int
		loop        bool
		hasNext     bool
		hasPrevious bool
	}{
		{"empty", 0, 0, false, false, false},
		{"empty with loop", 0, 0, true, false, false},
		{"single item with loop", 0, 1, true, false, false},
		{"first of three", 0, 3, false, true, false},
		{"middle of three", 1, 3, false, true, true},
		{"last of three", 2, 3, false, false, true},
		{"last of three with loop", 2, 3, true, true, true},
		{"first of two with loop", 0, 2, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasNext, HasNext(tt.current, tt.length, tt.loop))
			assert.Equal(t, tt.hasPrevious, HasPrevious(tt.current, tt.length, tt.loop))
		})
	}
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(4, 0))
	assert.Equal(t, 0, ClampIndex(-1, 3))
	assert.Equal(t, 2, ClampIndex(5, 3))
	assert.Equal(t, 1, ClampIndex(1, 3))
}

func TestLoopFullCycleReturnsToStart(t *testing.T) {
	for n := 2; n <= 7; n++ {
		for start := 0; start < n; start++ {
			idx := start
			for i := 0; i < n; i++ {
				idx = NextIndex(idx, n, true)
			}
			assert.Equal(t, start, idx, "n=%d start=%d", n, start)
		}
	}
}

func TestPreviousInvertsNext(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for i := 0; i < n; i++ {
			assert.Equal(t, i, PreviousIndex(NextIndex(i, n, true), n, true), "loop n=%d i=%d", n, i)
			if i < n-1 {
				assert.Equal(t, i, PreviousIndex(NextIndex(i, n, false), n, false), "no loop n=%d i=%d", n, i)
			}
		}
	}
}

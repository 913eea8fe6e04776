package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionsAreFortyCanonicalLines(t *testing.T) {
	dirs := Directions()
	require.Len(t, dirs, 40)

	seen := map[Direction]bool{}
	for _, d := range dirs {
		assert.NotEqual(t, Direction{}, d)
		assert.True(t, d.isCanonical(), "direction %v is not canonical", d)
		assert.False(t, seen[d], "duplicate direction %v", d)
		assert.False(t, seen[d.Negate()], "anti-parallel duplicate %v", d)
		seen[d] = true
	}
}

func TestDirectionsScanOrder(t *testing.T) {
	dirs := Directions()
	// dx is the outermost loop, so the dx=0 block comes first.
	assert.Equal(t, Direction{0, 0, 0, 1}, dirs[0])
	assert.Equal(t, Direction{1, 1, 1, 1}, dirs[len(dirs)-1])
}

func TestDirectionsReturnsCopy(t *testing.T) {
	dirs := Directions()
	dirs[0] = Direction{9, 9, 9, 9}
	assert.Equal(t, Direction{0, 0, 0, 1}, Directions()[0])
}

func TestNeumannDirectionsAreAxisUnits(t *testing.T) {
	for _, d := range neumannDirections {
		nonZero := 0
		for _, c := range d {
			if c != 0 {
				nonZero++
				assert.Contains(t, []int{-1, 1}, c)
			}
		}
		assert.Equal(t, 1, nonZero, "direction %v", d)
	}
}

package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid_ValueBounds(t *testing.T) {
	b := newGridBuilder(1, 1)
	b.set(1, 1, "a")
	b.set(2, 3, 42.0)
	g := b.grid()

	v, ok := g.Value(1, 1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = g.Value(2, 3)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	// Empty cell inside the loaded area.
	v, ok = g.Value(2, 1)
	assert.True(t, ok)
	assert.Nil(t, v)

	// Outside the loaded area.
	_, ok = g.Value(3, 1)
	assert.False(t, ok)
	_, ok = g.Value(1, 4)
	assert.False(t, ok)
	_, ok = g.Value(0, 1)
	assert.False(t, ok)
}

func TestGrid_WindowedOriginPreserved(t *testing.T) {
	// A grid anchored at (151, 4) answers original sheet coordinates.
	b := newGridBuilder(151, 4)
	b.set(151, 4, 1.0)
	b.set(161, 4, 11.0)
	g := b.grid()

	v, ok := g.Value(151, 4)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = g.Value(161, 4)
	assert.True(t, ok)
	assert.Equal(t, 11.0, v)

	_, ok = g.Value(150, 4)
	assert.False(t, ok)
	_, ok = g.Value(151, 3)
	assert.False(t, ok)
}

func TestGrid_Empty(t *testing.T) {
	g := emptyGrid()
	assert.True(t, g.IsEmpty())
	_, ok := g.Value(1, 1)
	assert.False(t, ok)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{MinRow: 2, MinCol: 3, MaxRow: 5, MaxCol: 7}
	assert.True(t, w.Contains(2, 3))
	assert.True(t, w.Contains(5, 7))
	assert.False(t, w.Contains(1, 3))
	assert.False(t, w.Contains(2, 8))
	assert.False(t, w.Contains(6, 4))
}

package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest_StaleGenerationIsDiscarded(t *testing.T) {
	var l Latest
	var state string

	first := l.Begin()
	second := l.Begin()

	// The newer refresh resolves first and wins.
	assert.True(t, l.Commit(second, func() { state = "new" }))

	// The older refresh resolves late; its result must be discarded.
	assert.False(t, l.Commit(first, func() { state = "old" }))
	assert.Equal(t, "new", state)
}

func TestLatest_CurrentTracksNewestGeneration(t *testing.T) {
	var l Latest

	g1 := l.Begin()
	assert.True(t, l.Current(g1))

	g2 := l.Begin()
	assert.False(t, l.Current(g1))
	assert.True(t, l.Current(g2))
}

func TestLatest_SameGenerationCommitsInOrder(t *testing.T) {
	var l Latest
	g := l.Begin()

	ran := 0
	assert.True(t, l.Commit(g, func() { ran++ }))
	assert.True(t, l.Commit(g, func() { ran++ }))
	assert.Equal(t, 2, ran)
}

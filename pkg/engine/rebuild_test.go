package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildCachesPopulatesEverything(t *testing.T) {
	eng := newTestEngine(t)

	paragraphID, err := eng.Save(paragraphTree("one", "two"))
	require.NoError(t, err)

	stats, err := eng.RebuildCaches()
	require.NoError(t, err)
	// The paragraph plus its two spans.
	assert.Equal(t, 3, stats.MaterializedCount)
	assert.Equal(t, 3, stats.RenderedCount)

	a := eng.mustGetAsset(t, paragraphID)
	assert.NotNil(t, a.ContentCache)
	require.NotNil(t, a.RawCache)
	assert.Equal(t, "onetwo\n\n", *a.RawCache)
}

func TestRebuildCachesIsIdempotent(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Save(paragraphTree("once"))
	require.NoError(t, err)

	first, err := eng.RebuildCaches()
	require.NoError(t, err)
	assert.NotZero(t, first.MaterializedCount)

	second, err := eng.RebuildCaches()
	require.NoError(t, err)
	assert.Zero(t, second.MaterializedCount)
	assert.Zero(t, second.RenderedCount)
}

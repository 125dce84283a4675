package sqlite

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/strata/pkg/types"
)

func assetsFor(t *testing.T, backend *Backend) types.Table {
	t.Helper()
	table, err := backend.GetTable(types.AssetsTable)
	require.NoError(t, err)
	return table
}

func TestAssetRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	raw := "rendered output"
	original := &types.Asset{
		TypeID: 7,
		ContentIDs: map[string]any{
			"heading": int64(12),
			"spans":   []any{"b3c9d2a0-5f1e-4d7a-9c2b-8e6f4a1d0c3e"},
		},
		ContentCache: map[string]any{
			"type":    int64(7),
			"heading": "h2",
		},
		RawCache:  &raw,
		TextRefs:  []int64{3, 9},
		EnumRefs:  []int64{12},
		AssetRefs: []string{"b3c9d2a0-5f1e-4d7a-9c2b-8e6f4a1d0c3e"},
	}

	id, err := assets.Set("", original)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := assets.Get(id)
	require.NoError(t, err)
	loaded := got.(*types.Asset)
	assert.Equal(t, original.TypeID, loaded.TypeID)
	assert.Equal(t, original.ContentIDs, loaded.ContentIDs)
	assert.Equal(t, original.ContentCache, loaded.ContentCache)
	require.NotNil(t, loaded.RawCache)
	assert.Equal(t, raw, *loaded.RawCache)
	assert.Equal(t, original.TextRefs, loaded.TextRefs)
	assert.Equal(t, original.EnumRefs, loaded.EnumRefs)
	assert.Equal(t, original.AssetRefs, loaded.AssetRefs)
	assert.Empty(t, loaded.RevisionChain)
}

func TestAssetNilCachesSurviveRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	id, err := assets.Set("", &types.Asset{TypeID: 4})
	require.NoError(t, err)

	got, err := assets.Get(id)
	require.NoError(t, err)
	loaded := got.(*types.Asset)
	assert.Nil(t, loaded.ContentCache)
	assert.Nil(t, loaded.RawCache)
	assert.Empty(t, loaded.TextRefs)
	assert.Empty(t, loaded.AssetRefs)
}

func TestAssetFetchCurrent(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	oldID, err := assets.Set("", &types.Asset{TypeID: 4})
	require.NoError(t, err)
	currentID, err := assets.Set("", &types.Asset{TypeID: 4, RevisionChain: oldID})
	require.NoError(t, err)

	current, err := assets.Fetch(types.Filter{"current": true})
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, currentID, current[0].(*types.Asset).AssetID)
}

func TestAssetFetchByChildReference(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	childID, err := assets.Set("", &types.Asset{TypeID: 5})
	require.NoError(t, err)
	parentID, err := assets.Set("", &types.Asset{TypeID: 7, AssetRefs: []string{childID}})
	require.NoError(t, err)
	_, err = assets.Set("", &types.Asset{TypeID: 7})
	require.NoError(t, err)

	parents, err := assets.Fetch(types.Filter{"references_asset": childID})
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, parentID, parents[0].(*types.Asset).AssetID)
}

func TestAssetFetchCacheFilters(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	raw := "The Quick Brown Fox"
	cachedID, err := assets.Set("", &types.Asset{
		TypeID:       4,
		ContentCache: map[string]any{"type": int64(4)},
		RawCache:     &raw,
	})
	require.NoError(t, err)
	coldID, err := assets.Set("", &types.Asset{TypeID: 4})
	require.NoError(t, err)

	missing, err := assets.Fetch(types.Filter{"missing_content_cache": true})
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, coldID, missing[0].(*types.Asset).AssetID)

	matches, err := assets.Fetch(types.Filter{"raw_contains": "quick brown"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, cachedID, matches[0].(*types.Asset).AssetID)

	matches, err = assets.Fetch(types.Filter{"raw_contains": "absent phrase"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAssetDeleteDiscardsRow(t *testing.T) {
	backend := newTestBackend(t)
	assets := assetsFor(t, backend)

	id, err := assets.Set("", &types.Asset{TypeID: 4})
	require.NoError(t, err)
	require.NoError(t, assets.Delete(id))

	_, err = assets.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, assets.Delete(id), types.ErrNotFound)
}

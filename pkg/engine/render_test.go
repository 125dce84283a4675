package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/strata/pkg/types"
)

func TestRenderListTemplate(t *testing.T) {
	eng := newTestEngine(t)

	assetTypes, err := eng.cupboard.GetTable(types.AssetTypesTable)
	require.NoError(t, err)
	span := types.Descriptor{Kind: types.KindAsset, TypeID: 4}
	_, err = assetTypes.Set("", &types.AssetType{
		TypeID:    8,
		Name:      "bullet-list",
		Schema:    types.Schema{"texts": {Kind: types.KindList, Elem: &span}},
		Templates: map[string]string{"raw": "{{for(texts)}} - {{texts}}\n{{endfor}}"},
	})
	require.NoError(t, err)

	id, err := eng.Save(map[string]any{
		"type":  "bullet-list",
		"texts": []any{spanTree("Foo"), spanTree("Bar")},
	})
	require.NoError(t, err)

	out, err := eng.Render(id, "raw")
	require.NoError(t, err)
	assert.Equal(t, " - Foo\n - Bar\n", out)
}

func TestRenderUnknownTemplateIsEmpty(t *testing.T) {
	eng := newTestEngine(t)
	id, err := eng.Save(spanTree("Foo"))
	require.NoError(t, err)

	out, err := eng.Render(id, "html")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	a := eng.mustGetAsset(t, id)
	assert.Nil(t, a.RawCache)
}

func TestRenderCachesRawOutput(t *testing.T) {
	eng := newTestEngine(t)
	id, err := eng.Save(paragraphTree("Foo", "Bar"))
	require.NoError(t, err)

	out, err := eng.Render(id, "raw")
	require.NoError(t, err)
	assert.Equal(t, "FooBar\n\n", out)

	a := eng.mustGetAsset(t, id)
	require.NotNil(t, a.RawCache)
	assert.Equal(t, out, *a.RawCache)

	// A stale cache is served verbatim until invalidated.
	stale := "stale"
	a.RawCache = &stale
	require.NoError(t, eng.putAsset(a))
	out, err = eng.Render(id, "raw")
	require.NoError(t, err)
	assert.Equal(t, "stale", out)
}

func TestRenderSubAssetsUseSameTemplate(t *testing.T) {
	eng := newTestEngine(t)
	id, err := eng.Save(map[string]any{
		"type": "block-paragraph",
		"spans": []any{
			spanTree("plain "),
			map[string]any{"type": "span-emphasized", "text": "strong"},
		},
	})
	require.NoError(t, err)

	out, err := eng.Render(id, "raw")
	require.NoError(t, err)
	assert.Equal(t, "plain *strong*\n\n", out)
}

func TestRenderRepeatedMarker(t *testing.T) {
	eng := newTestEngine(t)

	assetTypes, err := eng.cupboard.GetTable(types.AssetTypesTable)
	require.NoError(t, err)
	_, err = assetTypes.Set("", &types.AssetType{
		TypeID:    9,
		Name:      "echo",
		Schema:    types.Schema{"text": {Kind: types.KindText}},
		Templates: map[string]string{"raw": "{{text}} and {{text}}"},
	})
	require.NoError(t, err)

	id, err := eng.Save(map[string]any{"type": "echo", "text": "again"})
	require.NoError(t, err)
	out, err := eng.Render(id, "raw")
	require.NoError(t, err)
	assert.Equal(t, "again and again", out)
}

package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/strata/pkg/types"
)

func TestAssetTypeIDsStartAtFour(t *testing.T) {
	backend := newTestBackend(t)
	table, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)

	id, err := table.Set("", &types.AssetType{
		Name:   "span-regular",
		Schema: types.Schema{"text": {Kind: types.KindText}},
	})
	require.NoError(t, err)
	assert.Equal(t, "4", id)

	id, err = table.Set("", &types.AssetType{
		Name:   "span-emphasized",
		Schema: types.Schema{"text": {Kind: types.KindText}},
	})
	require.NoError(t, err)
	assert.Equal(t, "5", id)
}

func TestAssetTypeSchemaRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	table, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)

	span := types.Descriptor{Kind: types.KindAsset, TypeID: 5}
	original := &types.AssetType{
		TypeID: 7,
		Name:   "block-paragraph",
		Schema: types.Schema{
			"heading": {Kind: types.KindEnum, EnumID: 1},
			"spans":   {Kind: types.KindList, Elem: &span},
			"source":  {Kind: types.KindURI},
		},
		Templates: map[string]string{
			"raw": "{{for(spans)}}{{spans}}{{endfor}}\n\n",
		},
	}

	id, err := table.Set("", original)
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	got, err := table.Get(id)
	require.NoError(t, err)
	loaded := got.(*types.AssetType)
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Schema, loaded.Schema)
	assert.Equal(t, original.Templates, loaded.Templates)
}

func TestAssetTypeFetchFilters(t *testing.T) {
	backend := newTestBackend(t)
	table, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)

	_, err = table.Set("", &types.AssetType{TypeID: 4, Name: "block-element", Schema: types.Schema{}})
	require.NoError(t, err)
	_, err = table.Set("", &types.AssetType{TypeID: 5, Name: "block-paragraph", ParentID: 4, Schema: types.Schema{}})
	require.NoError(t, err)
	_, err = table.Set("", &types.AssetType{TypeID: 6, Name: "block-info-box", ParentID: 4, Schema: types.Schema{}})
	require.NoError(t, err)

	byName, err := table.Fetch(types.Filter{"name": "block-paragraph"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(5), byName[0].(*types.AssetType).TypeID)

	children, err := table.Fetch(types.Filter{"parent_id": int64(4)})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "block-paragraph", children[0].(*types.AssetType).Name)
	assert.Equal(t, "block-info-box", children[1].(*types.AssetType).Name)
}

func TestEnumTypeRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	table, err := backend.GetTable(types.EnumTypesTable)
	require.NoError(t, err)

	id, err := table.Set("", &types.EnumType{EnumID: 1, Items: []string{"h2", "h3", "h4"}})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	got, err := table.Get(id)
	require.NoError(t, err)
	loaded := got.(*types.EnumType)
	assert.Equal(t, []string{"h2", "h3", "h4"}, loaded.Items)
	assert.True(t, loaded.HasItem("h3"))
	assert.False(t, loaded.HasItem("h5"))
}

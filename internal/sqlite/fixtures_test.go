package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/strata/pkg/types"
)

const fixtureYAML = `
enum_types:
  - enum_id: 1
    items: ["h2", "h3", "h4"]

asset_types:
  - type_id: 4
    name: span-regular
    schema:
      text: 1
    templates:
      raw: "{{text}}"
  - name: block-paragraph
    parent: span-regular
    schema:
      heading: {"3": 1}
      spans: [4]
      source: 2
    templates:
      raw: "{{for(spans)}}{{spans}}{{endfor}}\n\n"
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixtures(t *testing.T) {
	backend := newTestBackend(t)
	path := writeFixture(t, fixtureYAML)

	require.NoError(t, backend.LoadFixtures(path))

	enums, err := backend.GetTable(types.EnumTypesTable)
	require.NoError(t, err)
	got, err := enums.Get("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h2", "h3", "h4"}, got.(*types.EnumType).Items)

	assetTypes, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)

	span, err := assetTypes.Get("4")
	require.NoError(t, err)
	assert.Equal(t, "span-regular", span.(*types.AssetType).Name)

	matches, err := assetTypes.Fetch(types.Filter{"name": "block-paragraph"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	paragraph := matches[0].(*types.AssetType)
	assert.Equal(t, int64(5), paragraph.TypeID)
	assert.Equal(t, int64(4), paragraph.ParentID)
	assert.Equal(t, types.KindEnum, paragraph.Schema["heading"].Kind)
	assert.Equal(t, int64(1), paragraph.Schema["heading"].EnumID)
	require.True(t, paragraph.Schema["spans"].IsList())
	assert.Equal(t, types.KindAsset, paragraph.Schema["spans"].Elem.Kind)
	assert.Equal(t, int64(4), paragraph.Schema["spans"].Elem.TypeID)
	assert.Equal(t, types.KindURI, paragraph.Schema["source"].Kind)
}

func TestLoadFixturesIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	path := writeFixture(t, fixtureYAML)

	require.NoError(t, backend.LoadFixtures(path))
	require.NoError(t, backend.LoadFixtures(path))

	assetTypes, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)
	all, err := assetTypes.Fetch(types.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLoadFixturesRejectsUnknownParent(t *testing.T) {
	backend := newTestBackend(t)
	path := writeFixture(t, `
asset_types:
  - name: orphan
    parent: no-such-type
    schema: {}
`)
	err := backend.LoadFixtures(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLoadFixturesDetached(t *testing.T) {
	backend := NewBackend()
	err := backend.LoadFixtures("irrelevant.yaml")
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

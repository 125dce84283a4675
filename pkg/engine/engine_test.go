package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/strata/internal/sqlite"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// Test type system: an enumeration of heading levels, two span types where
// span-emphasized subtypes span-regular, and two block types composed of
// spans.
func seedTypes(t *testing.T, backend *sqlite.Backend) {
	t.Helper()

	enumTypes, err := backend.GetTable(types.EnumTypesTable)
	require.NoError(t, err)
	_, err = enumTypes.Set("", &types.EnumType{EnumID: 1, Items: []string{"h2", "h3"}})
	require.NoError(t, err)

	assetTypes, err := backend.GetTable(types.AssetTypesTable)
	require.NoError(t, err)

	span := types.Descriptor{Kind: types.KindAsset, TypeID: 4}
	for _, at := range []*types.AssetType{
		{
			TypeID:    4,
			Name:      "span-regular",
			Schema:    types.Schema{"text": {Kind: types.KindText}},
			Templates: map[string]string{"raw": "{{text}}"},
		},
		{
			TypeID:    5,
			Name:      "span-emphasized",
			ParentID:  4,
			Schema:    types.Schema{"text": {Kind: types.KindText}},
			Templates: map[string]string{"raw": "*{{text}}*"},
		},
		{
			TypeID: 6,
			Name:   "block-paragraph",
			Schema: types.Schema{"spans": {Kind: types.KindList, Elem: &span}},
			Templates: map[string]string{
				"raw": "{{for(spans)}}{{spans}}{{endfor}}\n\n",
			},
		},
		{
			TypeID: 7,
			Name:   "block-info-box",
			Schema: types.Schema{
				"title": {Kind: types.KindText},
				"level": {Kind: types.KindEnum, EnumID: 1},
				"spans": {Kind: types.KindList, Elem: &span},
			},
			Templates: map[string]string{
				"raw": "{{title}}: {{for(spans)}}{{spans}}{{endfor}}",
			},
		},
	} {
		_, err = assetTypes.Set("", at)
		require.NoError(t, err)
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { backend.Detach() })
	seedTypes(t, backend)

	eng, err := New(backend, zerolog.Nop())
	require.NoError(t, err)
	return eng
}

func spanTree(text string) map[string]any {
	return map[string]any{"type": "span-regular", "text": text}
}

func paragraphTree(spanTexts ...string) map[string]any {
	spans := make([]any, len(spanTexts))
	for i, text := range spanTexts {
		spans[i] = spanTree(text)
	}
	return map[string]any{"type": "block-paragraph", "spans": spans}
}

func (e *Engine) mustGetAsset(t *testing.T, id string) *types.Asset {
	t.Helper()
	a, err := e.getAsset(id)
	require.NoError(t, err)
	return a
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedInfoBox(t *testing.T, eng *Engine, title, body string) string {
	t.Helper()
	id, err := eng.Save(map[string]any{
		"type":  "block-info-box",
		"title": title,
		"level": "h2",
		"spans": []any{spanTree(body)},
	})
	require.NoError(t, err)
	return id
}

func TestFindMatchesSubstringAndTypeFilter(t *testing.T) {
	eng := newTestEngine(t)

	boxID := savedInfoBox(t, eng, "Note", "Thank You for reading")
	paragraphID, err := eng.Save(paragraphTree("thank you as well"))
	require.NoError(t, err)

	_, err = eng.RebuildCaches()
	require.NoError(t, err)

	results, err := eng.Find("you", map[string]any{"type": "block-info-box"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, boxID, results[0].ID)
	assert.Equal(t, int64(7), results[0].TypeID)
	assert.Contains(t, results[0].Snippet, "Thank You")

	// Without the type filter the paragraph matches too.
	results, err = eng.Find("you", nil)
	require.NoError(t, err)
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	assert.ElementsMatch(t, []string{boxID, paragraphID}, ids)
}

func TestFindSkipsSupersededRevisions(t *testing.T) {
	eng := newTestEngine(t)

	id := savedInfoBox(t, eng, "Note", "original body")
	_, err := eng.RebuildCaches()
	require.NoError(t, err)

	_, err = eng.Save(map[string]any{"id": id, "type": "block-info-box", "title": "Changed"})
	require.NoError(t, err)
	_, err = eng.RebuildCaches()
	require.NoError(t, err)

	results, err := eng.Find("original", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID, "only the current revision may match")
}

func TestFindStructuralContainment(t *testing.T) {
	eng := newTestEngine(t)

	savedInfoBox(t, eng, "Note", "alpha")
	_, err := eng.RebuildCaches()
	require.NoError(t, err)

	results, err := eng.Find("", map[string]any{"spans": []any{map[string]any{"text": "alpha"}}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = eng.Find("", map[string]any{"spans": []any{map[string]any{"text": "beta"}}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindRequiresPopulatedCaches(t *testing.T) {
	eng := newTestEngine(t)

	savedInfoBox(t, eng, "Note", "uncached")
	results, err := eng.Find("uncached", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

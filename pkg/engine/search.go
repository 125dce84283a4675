// This file implements search over current assets: case-insensitive
// substring matching on the rendered output plus structural containment of
// a JSON filter in the materialized value.
package engine

import (
	"github.com/mesh-intelligence/strata/pkg/types"
)

// snippetLength bounds the rendered-content excerpt returned per match.
const snippetLength = 500

// FindResult is one search match.
type FindResult struct {
	ID      string `json:"id"`
	TypeID  int64  `json:"type_id"`
	Snippet string `json:"raw_content_snippet"`
}

// Find returns the current assets (those without a successor revision) whose
// rendered output contains the substring, case-insensitively, and whose
// materialized value structurally contains the filter as a sub-object. Only
// assets with both caches populated can match; RebuildCaches fills the rest.
func (e *Engine) Find(substring string, filter map[string]any) ([]FindResult, error) {
	records, err := e.assets.Fetch(types.Filter{
		"current":      true,
		"raw_contains": substring,
	})
	if err != nil {
		return nil, err
	}

	results := []FindResult{}
	for _, rec := range records {
		a := rec.(*types.Asset)
		if a.ContentCache == nil || a.RawCache == nil {
			continue
		}
		if len(filter) > 0 && !containsSubtree(a.ContentCache, filter) {
			continue
		}
		results = append(results, FindResult{
			ID:      a.AssetID,
			TypeID:  a.TypeID,
			Snippet: snippet(*a.RawCache),
		})
	}
	return results, nil
}

func snippet(raw string) string {
	runes := []rune(raw)
	if len(runes) <= snippetLength {
		return raw
	}
	return string(runes[:snippetLength])
}

// containsSubtree reports whether value structurally contains the filter:
// filter objects require all their keys contained in the value object,
// filter lists require each element contained in some value element, and
// scalars compare by normalized equality.
func containsSubtree(value, filter any) bool {
	switch f := filter.(type) {
	case map[string]any:
		v, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for key, fv := range f {
			vv, present := v[key]
			if !present || !containsSubtree(vv, fv) {
				return false
			}
		}
		return true
	case []any:
		v, ok := value.([]any)
		if !ok {
			return false
		}
		for _, fe := range f {
			matched := false
			for _, ve := range v {
				if containsSubtree(ve, fe) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	default:
		return scalarEqual(value, filter)
	}
}

func scalarEqual(a, b any) bool {
	if ai, err := leafID(a); err == nil {
		bi, errB := leafID(b)
		return errB == nil && ai == bi
	}
	return a == b
}

// Tests for Asset reference-list bookkeeping.
package types

import "testing"

func TestAsset_RegisterRefsDeduplicate(t *testing.T) {
	a := &Asset{}
	a.RegisterTextRef(1)
	a.RegisterTextRef(1)
	a.RegisterTextRef(2)
	if len(a.TextRefs) != 2 {
		t.Errorf("expected 2 text refs, got %v", a.TextRefs)
	}

	a.RegisterAssetRef("x")
	a.RegisterAssetRef("x")
	if len(a.AssetRefs) != 1 {
		t.Errorf("expected 1 asset ref, got %v", a.AssetRefs)
	}
}

func TestAsset_ClearCaches(t *testing.T) {
	raw := "rendered"
	a := &Asset{
		ContentCache: map[string]any{"id": "a"},
		RawCache:     &raw,
		TextRefs:     []int64{1},
		URIRefs:      []int64{2},
		EnumRefs:     []int64{3},
		AssetRefs:    []string{"b"},
	}
	a.ClearCaches()
	if a.ContentCache != nil || a.RawCache != nil {
		t.Error("caches not cleared")
	}
	if len(a.TextRefs)+len(a.URIRefs)+len(a.EnumRefs)+len(a.AssetRefs) != 0 {
		t.Error("reference lists not cleared")
	}
}

func TestEnumType_HasItem(t *testing.T) {
	e := &EnumType{EnumID: 1, Items: []string{"de", "en"}}
	if !e.HasItem("de") {
		t.Error("expected member de")
	}
	if e.HasItem("fr") {
		t.Error("fr is not a member")
	}
}

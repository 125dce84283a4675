package types

// Asset is one typed node of a content tree. Its identity is stable across
// edits; prior field-map states are preserved as detached asset rows linked
// through RevisionChain.
//
// ContentIDs is the field map snapshot: field name -> reference, where a
// reference is an int64 leaf row id, a sub-asset UUID string, or an ordered
// []any of either. For assets with change-log entries the authoritative map
// is the change-log replay; the snapshot mirrors the tip and is what detached
// revision rows keep after the log has moved on.
//
// The four reference lists record exactly the direct leaves and sub-assets
// touched during the most recent materialization. They are cleared and
// rebuilt wholesale whenever the content cache is rebuilt, never patched
// incrementally, and drive cache invalidation one hop at a time.
type Asset struct {
	AssetID       string         // UUID v4, generated, immutable.
	TypeID        int64          // AssetType id.
	ContentIDs    map[string]any // Field map snapshot.
	ContentCache  map[string]any // Materialized value; nil until built.
	RawCache      *string        // Rendered raw template output; nil until built.
	TextRefs      []int64        // Text leaf rows consulted by the last materialization.
	URIRefs       []int64        // URI leaf rows likewise.
	EnumRefs      []int64        // Enum item rows likewise.
	AssetRefs     []string       // Direct sub-assets likewise (one hop, not transitive).
	RevisionChain string         // Previous revision asset id; empty for the original state.
}

// ClearReferenceLists empties all four invalidation reference lists.
func (a *Asset) ClearReferenceLists() {
	a.TextRefs = a.TextRefs[:0]
	a.URIRefs = a.URIRefs[:0]
	a.EnumRefs = a.EnumRefs[:0]
	a.AssetRefs = a.AssetRefs[:0]
}

// ClearCaches drops the materialized value and rendered output caches
// together with the reference lists that describe them.
func (a *Asset) ClearCaches() {
	a.ContentCache = nil
	a.RawCache = nil
	a.ClearReferenceLists()
}

// RegisterTextRef records a text leaf consulted during materialization.
func (a *Asset) RegisterTextRef(id int64) {
	for _, r := range a.TextRefs {
		if r == id {
			return
		}
	}
	a.TextRefs = append(a.TextRefs, id)
}

// RegisterURIRef records a URI leaf consulted during materialization.
func (a *Asset) RegisterURIRef(id int64) {
	for _, r := range a.URIRefs {
		if r == id {
			return
		}
	}
	a.URIRefs = append(a.URIRefs, id)
}

// RegisterEnumRef records an enum item consulted during materialization.
func (a *Asset) RegisterEnumRef(id int64) {
	for _, r := range a.EnumRefs {
		if r == id {
			return
		}
	}
	a.EnumRefs = append(a.EnumRefs, id)
}

// RegisterAssetRef records a direct sub-asset consulted during
// materialization.
func (a *Asset) RegisterAssetRef(id string) {
	for _, r := range a.AssetRefs {
		if r == id {
			return
		}
	}
	a.AssetRefs = append(a.AssetRefs, id)
}

// This file implements tree materialization: expanding an asset's field map
// into a fully resolved nested value while rebuilding the invalidation
// reference lists.
package engine

import (
	"fmt"

	"github.com/mesh-intelligence/strata/internal/metrics"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// Materialize expands the asset into a plain nested value of strings, lists
// and objects carrying "id" and "type" keys. A populated content cache is
// returned verbatim; otherwise the reference lists are rebuilt from scratch,
// every field is resolved per its descriptor, and the result is cached and
// persisted. Not safe for concurrent calls on the same asset.
func (e *Engine) Materialize(assetID string) (map[string]any, error) {
	a, err := e.getAsset(assetID)
	if err != nil {
		return nil, err
	}
	return e.materializeAsset(a)
}

func (e *Engine) materializeAsset(a *types.Asset) (map[string]any, error) {
	if a.ContentCache != nil {
		metrics.Materializations.WithLabelValues("hit").Inc()
		return a.ContentCache, nil
	}

	t, err := e.getAssetType(a.TypeID)
	if err != nil {
		return nil, fmt.Errorf("resolving type of asset %s: %w", a.AssetID, err)
	}
	structure, err := e.fieldMap(a)
	if err != nil {
		return nil, fmt.Errorf("replaying structure of asset %s: %w", a.AssetID, err)
	}

	a.ClearReferenceLists()
	content := map[string]any{
		"id":   a.AssetID,
		"type": t.Name,
	}
	for field, d := range t.Schema {
		if d.IsList() {
			refs, _ := structure[field].([]any)
			values := make([]any, len(refs))
			for i, ref := range refs {
				values[i], err = e.resolveContent(a, *d.Elem, ref)
				if err != nil {
					return nil, fmt.Errorf("resolving %s[%d] of asset %s: %w", field, i, a.AssetID, err)
				}
			}
			content[field] = values
			continue
		}
		content[field], err = e.resolveContent(a, d, structure[field])
		if err != nil {
			return nil, fmt.Errorf("resolving %s of asset %s: %w", field, a.AssetID, err)
		}
	}

	a.ContentCache = content
	if err := e.putAsset(a); err != nil {
		return nil, err
	}
	metrics.Materializations.WithLabelValues("built").Inc()
	e.log.Debug().Str("asset", a.AssetID).Str("type", t.Name).Msg("materialized asset")
	return content, nil
}

// resolveContent resolves one stored reference to its content value,
// registering the touched leaf or sub-asset in the owning asset's reference
// lists. Sub-assets materialize recursively but register only one hop deep.
func (e *Engine) resolveContent(a *types.Asset, d types.Descriptor, ref any) (any, error) {
	switch d.Kind {
	case types.KindText:
		id, err := leafID(ref)
		if err != nil {
			return nil, err
		}
		text, err := e.getText(id)
		if err != nil {
			return nil, err
		}
		a.RegisterTextRef(text.TextID)
		return text.Text, nil
	case types.KindURI:
		id, err := leafID(ref)
		if err != nil {
			return nil, err
		}
		uri, err := e.getURI(id)
		if err != nil {
			return nil, err
		}
		a.RegisterURIRef(uri.URIID)
		return uri.URI, nil
	case types.KindEnum:
		id, err := leafID(ref)
		if err != nil {
			return nil, err
		}
		item, err := e.getEnumItem(id)
		if err != nil {
			return nil, err
		}
		a.RegisterEnumRef(item.ItemID)
		return item.Item, nil
	case types.KindAsset:
		subID, ok := ref.(string)
		if !ok {
			return nil, fmt.Errorf("reference %v is not a sub-asset id", ref)
		}
		sub, err := e.getAsset(subID)
		if err != nil {
			return nil, err
		}
		a.RegisterAssetRef(sub.AssetID)
		return e.materializeAsset(sub)
	}
	return nil, fmt.Errorf("cannot resolve content of kind %d", d.Kind)
}

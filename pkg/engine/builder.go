// This file implements the builder/modifier: turning validated input trees
// into leaf rows, assets and change-log entries, and deciding when an edit
// warrants a new content revision.
package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mesh-intelligence/strata/internal/metrics"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// Save validates the input tree and persists it, returning the root asset
// id. New sub-trees are created bottom-up; sub-trees carrying an id are
// modified in place with partial-update semantics. A failed validation
// leaves the store untouched.
func (e *Engine) Save(tree map[string]any) (string, error) {
	if err := e.Validate(tree, 0); err != nil {
		return "", err
	}
	return e.upsertAsset(tree)
}

func (e *Engine) upsertAsset(tree map[string]any) (string, error) {
	if _, ok := tree["id"]; ok {
		return e.modifyAsset(tree)
	}
	return e.createAsset(tree)
}

// createAsset builds a fresh asset: every schema field's content is created
// recursively, the asset row is persisted with a generated id, and each
// field gets an initial change-log entry.
func (e *Engine) createAsset(tree map[string]any) (string, error) {
	t, err := e.typeByName(tree["type"].(string))
	if err != nil {
		return "", err
	}

	contentIDs := make(map[string]any, len(t.Schema))
	for field, d := range t.Schema {
		if d.IsList() {
			items := tree[field].([]any)
			refs := make([]any, len(items))
			for i, item := range items {
				refs[i], err = e.createOrModifyValue(item, *d.Elem)
				if err != nil {
					return "", err
				}
			}
			contentIDs[field] = refs
			continue
		}
		contentIDs[field], err = e.createOrModifyValue(tree[field], d)
		if err != nil {
			return "", err
		}
	}

	a := &types.Asset{TypeID: t.TypeID, ContentIDs: contentIDs}
	if _, err := e.assets.Set("", a); err != nil {
		return "", err
	}
	for field := range t.Schema {
		if _, err := e.AppendChange(a.AssetID, field, 0, 0, contentIDs[field], time.Now()); err != nil {
			return "", err
		}
	}

	e.log.Debug().Str("asset", a.AssetID).Str("type", t.Name).Msg("created asset")
	return a.AssetID, nil
}

// createOrModifyValue resolves one input value to a stored reference:
// leaf values become new leaf rows, sub-asset trees are created or modified
// recursively.
func (e *Engine) createOrModifyValue(value any, d types.Descriptor) (any, error) {
	if d.IsLeaf() {
		return e.createLeaf(value, d)
	}
	return e.upsertAsset(value.(map[string]any))
}

func (e *Engine) createLeaf(value any, d types.Descriptor) (int64, error) {
	content := value.(string)
	var id string
	var err error
	switch d.Kind {
	case types.KindText:
		id, err = e.texts.Set("", &types.Text{Text: content})
	case types.KindURI:
		id, err = e.uris.Set("", &types.URIElement{URI: content})
	case types.KindEnum:
		id, err = e.enumItems.Set("", &types.EnumItem{EnumID: d.EnumID, Item: content})
	default:
		return 0, fmt.Errorf("kind %d is not a leaf kind", d.Kind)
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(id, 10, 64)
}

// leafValue returns the stored scalar content behind a leaf reference.
func (e *Engine) leafValue(d types.Descriptor, ref any) (string, error) {
	id, err := leafID(ref)
	if err != nil {
		return "", err
	}
	switch d.Kind {
	case types.KindText:
		text, err := e.getText(id)
		if err != nil {
			return "", err
		}
		return text.Text, nil
	case types.KindURI:
		uri, err := e.getURI(id)
		if err != nil {
			return "", err
		}
		return uri.URI, nil
	case types.KindEnum:
		item, err := e.getEnumItem(id)
		if err != nil {
			return "", err
		}
		return item.Item, nil
	}
	return "", fmt.Errorf("kind %d is not a leaf kind", d.Kind)
}

// modifyAsset applies a partial update to an existing asset. The prior state
// is first detached as a speculative revision row. Fields present in the
// input are compared against the current content: leaf fields by value,
// sub-asset fields by resulting identity, list fields by membership. The
// revision row is kept only when content genuinely changed; pure reorders
// update the field map and clear caches without creating a revision; an
// update that echoes the current content exactly touches nothing.
func (e *Engine) modifyAsset(tree map[string]any) (string, error) {
	a, err := e.getAsset(tree["id"].(string))
	if err != nil {
		return "", err
	}
	t, err := e.getAssetType(a.TypeID)
	if err != nil {
		return "", err
	}
	current, err := e.fieldMap(a)
	if err != nil {
		return "", err
	}

	detached := &types.Asset{
		TypeID:        a.TypeID,
		ContentIDs:    deepCopy(current),
		ContentCache:  deepCopy(a.ContentCache),
		TextRefs:      append([]int64(nil), a.TextRefs...),
		URIRefs:       append([]int64(nil), a.URIRefs...),
		EnumRefs:      append([]int64(nil), a.EnumRefs...),
		AssetRefs:     append([]string(nil), a.AssetRefs...),
		RevisionChain: a.RevisionChain,
	}
	if a.RawCache != nil {
		raw := *a.RawCache
		detached.RawCache = &raw
	}
	detachedID, err := e.assets.Set("", detached)
	if err != nil {
		return "", err
	}

	contentChanged := false
	newMap := deepCopy(current)
	changedFields := make(map[string]bool)

	for field, d := range t.Schema {
		value, present := tree[field]
		if !present {
			continue
		}
		switch {
		case d.IsList():
			oldRefs, _ := current[field].([]any)
			newRefs, err := e.resolveListField(value.([]any), *d.Elem, oldRefs)
			if err != nil {
				return "", err
			}
			if !refListEqual(newRefs, oldRefs) {
				changedFields[field] = true
				newMap[field] = newRefs
				if !refMultisetEqual(newRefs, oldRefs) {
					contentChanged = true
				}
			}
		case d.IsLeaf():
			oldValue, err := e.leafValue(d, current[field])
			if err != nil {
				return "", err
			}
			if value.(string) != oldValue {
				newRef, err := e.createLeaf(value, d)
				if err != nil {
					return "", err
				}
				newMap[field] = newRef
				changedFields[field] = true
				contentChanged = true
			}
		default:
			newRef, err := e.createOrModifyValue(value, d)
			if err != nil {
				return "", err
			}
			if !refEqual(newRef, current[field]) {
				newMap[field] = newRef
				changedFields[field] = true
				contentChanged = true
			}
		}
	}

	if len(changedFields) == 0 {
		if err := e.assets.Delete(detachedID); err != nil {
			return "", err
		}
		return a.AssetID, nil
	}

	if err := e.ensureChangeLog(a, current); err != nil {
		return "", err
	}
	for field := range changedFields {
		deleteCount := 0
		if oldRefs, ok := current[field].([]any); ok {
			deleteCount = len(oldRefs)
		}
		if _, err := e.AppendChange(a.AssetID, field, 0, deleteCount, newMap[field], time.Now()); err != nil {
			return "", err
		}
	}

	a.ContentIDs = newMap
	if contentChanged {
		a.RevisionChain = detachedID
		metrics.Revisions.Inc()
	} else if err := e.assets.Delete(detachedID); err != nil {
		return "", err
	}
	if err := e.putAsset(a); err != nil {
		return "", err
	}
	if err := e.Invalidate(a.AssetID); err != nil {
		return "", err
	}

	e.log.Debug().Str("asset", a.AssetID).Bool("revision", contentChanged).Msg("modified asset")
	return a.AssetID, nil
}

// resolveListField resolves the new members of a list field. Leaf values
// that match the stored content at the same position reuse the existing
// row; everything else is created or upserted.
func (e *Engine) resolveListField(items []any, elem types.Descriptor, oldRefs []any) ([]any, error) {
	newRefs := make([]any, len(items))
	for i, item := range items {
		if elem.IsLeaf() && i < len(oldRefs) {
			oldValue, err := e.leafValue(elem, oldRefs[i])
			if err == nil && oldValue == item {
				newRefs[i] = oldRefs[i]
				continue
			}
		}
		ref, err := e.createOrModifyValue(item, elem)
		if err != nil {
			return nil, err
		}
		newRefs[i] = ref
	}
	return newRefs, nil
}

// ensureChangeLog backfills a change log for assets that predate theirs,
// so later appends replay against the full field map rather than schema
// defaults.
func (e *Engine) ensureChangeLog(a *types.Asset, current map[string]any) error {
	tip, err := e.changeTip(a.AssetID)
	if err != nil || tip != nil {
		return err
	}
	for field, ref := range current {
		if _, err := e.AppendChange(a.AssetID, field, 0, 0, ref, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate clears the caches of the asset and, transitively, of every
// asset whose materialization depends on it. Ancestors are walked through
// the child-to-parents reference index and cleared before the asset itself.
func (e *Engine) Invalidate(assetID string) error {
	return e.invalidate(assetID, make(map[string]bool))
}

func (e *Engine) invalidate(assetID string, seen map[string]bool) error {
	if seen[assetID] {
		return nil
	}
	seen[assetID] = true

	parents, err := e.assets.Fetch(types.Filter{"references_asset": assetID})
	if err != nil {
		return err
	}
	for _, rec := range parents {
		if err := e.invalidate(rec.(*types.Asset).AssetID, seen); err != nil {
			return err
		}
	}

	a, err := e.getAsset(assetID)
	if err != nil {
		return err
	}
	a.ClearCaches()
	if err := e.putAsset(a); err != nil {
		return err
	}
	metrics.Invalidations.Inc()
	return nil
}

// refKey normalizes a reference for multiset comparison.
func refKey(ref any) any {
	if id, err := leafID(ref); err == nil {
		return id
	}
	return ref
}

func refListEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !refEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func refMultisetEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[any]int, len(a))
	for _, ref := range a {
		counts[refKey(ref)]++
	}
	for _, ref := range b {
		counts[refKey(ref)]--
		if counts[refKey(ref)] < 0 {
			return false
		}
	}
	return true
}
